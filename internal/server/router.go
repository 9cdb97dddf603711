package server

import (
	"context"
	"net/http"

	"colorledger/internal/handlers"
	applog "colorledger/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{path: "/healthz", handler: handlers.Health},
		{path: "/api/formulas", handler: handlers.Formulas},
		{path: "/api/formulas/", handler: handlers.FormulaResource},
		{path: "/api/import", handler: handlers.Import},
		{path: "/api/template", handler: handlers.Template},
		{path: "/api/analytics", handler: handlers.Analytics},
		{path: "/api/wipe", handler: handlers.Wipe},
		{path: "/import", handler: handlers.DashboardImport},
		{path: "/", handler: handlers.Dashboard},
	}
	for _, route := range routes {
		mux.HandleFunc(route.path, route.handler)
		applog.Debug(context.Background(), "route registered", "path", route.path)
	}
	return mux
}
