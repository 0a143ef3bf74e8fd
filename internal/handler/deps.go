package handler

import (
	"msghub/internal/app/hub"
	"msghub/internal/app/store"
	"msghub/internal/configs"
)

// AppDeps bundles the collaborators handlers need.
type AppDeps struct {
	Router *hub.Router
	Store  store.MessageStore
	Config *configs.AppConfig
}
