// The daemon package exposes the racman command tree over HTTP so
// automation can drive controllers without shelling out. Each command maps
// to an endpoint: GET returns its help text, POST executes it with one
// argument per body line.
package daemon

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunServer serves the command tree under rootCmd until the listener
// fails. When 'daemon.require-token' is set, every request must carry a
// valid bearer JWT.
func RunServer(rootCmd *cobra.Command) error {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Timeout(60*time.Second),
	)
	if viper.GetBool("daemon.require-token") {
		router.Use(requireToken)
	}

	createCommandTree(router, "", rootCmd)

	err := http.ListenAndServe(viper.GetString("daemon.endpoint"), router)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requireToken rejects requests whose Authorization bearer token is not a
// currently valid JWT.
func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse([]byte(raw))
		if err != nil {
			log.Debug().Err(err).Msg("failed to parse bearer token")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if err := jwt.Validate(token); err != nil {
			log.Debug().Err(err).Msg("bearer token failed validation")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// createCommandTree adds endpoints for cmd and recurses into its
// subcommands.
func createCommandTree(router *chi.Mux, endpoint string, cmd *cobra.Command) {
	endpoint = endpoint + "/" + cmd.Name()
	router.Get(endpoint, helpHandler(cmd))
	router.Post(endpoint, commandHandler(cmd))
	for _, child := range cmd.Commands() {
		if child.Runnable() || child.HasSubCommands() {
			createCommandTree(router, endpoint, child)
		}
	}
}

func helpHandler(cmd *cobra.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd.SetOut(w)
		_ = cmd.Help()
	}
}

func commandHandler(cmd *cobra.Command) http.HandlerFunc {
	// Detach from the parent so Execute() runs this command directly
	// instead of walking back up the tree.
	if parent := cmd.Parent(); parent != nil {
		parent.RemoveCommand(cmd)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		cmd.SetOut(w)

		body, err := io.ReadAll(r.Body)
		var args []string
		if err == nil && len(body) > 0 {
			args = strings.Split(strings.TrimRight(string(body), "\n"), "\n")
		}
		cmd.SetArgs(args)

		if err := cmd.Execute(); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
