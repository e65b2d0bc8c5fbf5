// Legacy users
// Read-only directory of legacy user accounts for lazy migration into an identity provider.
// Routes live under ${PATH_PREFIX}/api/users/{username}/ (HEAD exists, GET details, POST login).

package main

import (
	"github.com/andrasnagy-data/legacyusers/internal/components/users"
	"github.com/andrasnagy-data/legacyusers/internal/server"
	"github.com/andrasnagy-data/legacyusers/internal/shared/config"
	"github.com/andrasnagy-data/legacyusers/internal/shared/database"
	"github.com/andrasnagy-data/legacyusers/internal/shared/logging"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewPgxPool,
			users.NewSource,
			users.LoadDirectory,
			users.NewService,
			fx.Annotate(users.NewRouter, fx.ResultTags(`name:"usersRouter"`)),
			server.NewHealthSrvc,
			server.NewHealthHandler,
			server.NewRouter,
			server.NewServer,
		),
		fx.Invoke((*server.Server).Start),
	).Run()
}
