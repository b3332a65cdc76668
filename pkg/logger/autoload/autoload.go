// Package autoload initializes the global logger from the environment as a
// side effect of being imported.
package autoload

import (
	configx "github.com/tmaharjan/voxcore/pkg/config"
	logx "github.com/tmaharjan/voxcore/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOGGER"))
}
