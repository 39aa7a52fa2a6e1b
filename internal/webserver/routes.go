package webserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

type route struct {
	method     string
	path       string
	handler    echo.HandlerFunc
	middleware []echo.MiddlewareFunc
}

var (
	routesMu  sync.Mutex
	apiRoutes []route
)

func addRoute(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	for i, r := range apiRoutes {
		if r.method == method && r.path == path {
			apiRoutes[i] = route{method, path, h, m}
			return
		}
	}
	apiRoutes = append(apiRoutes, route{method, path, h, m})
}

// ApiGET registers a GET handler under /api/v1.
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodGet, path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodPost, path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodPut, path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodDelete, path, h, m...)
}

func registeredRoutes() []route {
	routesMu.Lock()
	defer routesMu.Unlock()
	out := make([]route, len(apiRoutes))
	copy(out, apiRoutes)
	return out
}
