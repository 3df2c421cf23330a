// Пакет routes — таблица маршрутов Pereval API и привязка параметров.
// Структура повторяет chi-server обвязку oapi-codegen: ServerInterface
// описывает операции openapi.yaml, ServerInterfaceWrapper разбирает
// path/query параметры через oapi-codegen/runtime и вызывает обработчик.
package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ListSubmitDataParams — параметры GET /submitData/.
type ListSubmitDataParams struct {
	// UserEmail — email автора (query-параметр user__email), точное совпадение
	UserEmail string `form:"user__email" json:"user__email"`
}

// ServerInterface — операции API.
type ServerInterface interface {
	// (GET /)
	Root(w http.ResponseWriter, r *http.Request)
	// (GET /health/live)
	HealthLive(w http.ResponseWriter, r *http.Request)
	// (GET /health/ready)
	HealthReady(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	GetMetrics(w http.ResponseWriter, r *http.Request)
	// (GET /openapi.json)
	GetOpenAPI(w http.ResponseWriter, r *http.Request)
	// (POST /submitData)
	SubmitData(w http.ResponseWriter, r *http.Request)
	// (GET /submitData/)
	ListSubmitData(w http.ResponseWriter, r *http.Request, params ListSubmitDataParams)
	// (GET /submitData/{id})
	GetSubmitData(w http.ResponseWriter, r *http.Request, id int64)
	// (PATCH /submitData/{id})
	PatchSubmitData(w http.ResponseWriter, r *http.Request, id int64)
}

// MiddlewareFunc — middleware отдельной операции.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper разбирает параметры запроса и вызывает ServerInterface.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// Root — GET /.
func (siw *ServerInterfaceWrapper) Root(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.Root)
}

// HealthLive — GET /health/live.
func (siw *ServerInterfaceWrapper) HealthLive(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthLive)
}

// HealthReady — GET /health/ready.
func (siw *ServerInterfaceWrapper) HealthReady(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthReady)
}

// GetMetrics — GET /metrics.
func (siw *ServerInterfaceWrapper) GetMetrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetMetrics)
}

// GetOpenAPI — GET /openapi.json.
func (siw *ServerInterfaceWrapper) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetOpenAPI)
}

// SubmitData — POST /submitData.
func (siw *ServerInterfaceWrapper) SubmitData(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.SubmitData)
}

// ListSubmitData — GET /submitData/ с обязательным user__email.
func (siw *ServerInterfaceWrapper) ListSubmitData(w http.ResponseWriter, r *http.Request) {
	var params ListSubmitDataParams

	// ------------- Required query parameter "user__email" -------------
	if paramValue := r.URL.Query().Get("user__email"); paramValue == "" {
		siw.ErrorHandlerFunc(w, r, &RequiredParamError{ParamName: "user__email"})
		return
	}

	err := runtime.BindQueryParameter("form", true, true, "user__email", r.URL.Query(), &params.UserEmail)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "user__email", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListSubmitData(w, r, params)
	})
}

// GetSubmitData — GET /submitData/{id}.
func (siw *ServerInterfaceWrapper) GetSubmitData(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSubmitData(w, r, id)
	})
}

// PatchSubmitData — PATCH /submitData/{id}.
func (siw *ServerInterfaceWrapper) PatchSubmitData(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PatchSubmitData(w, r, id)
	})
}

// bindID разбирает path-параметр id как целое число.
func (siw *ServerInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return 0, false
	}
	return id, true
}

// --- Ошибки разбора параметров ---

// RequiredParamError — обязательный параметр не передан.
type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

// InvalidParamFormatError — параметр не соответствует типу.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions — параметры регистрации маршрутов.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler создаёт http.Handler с маршрутами на новом chi.Router.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux регистрирует маршруты на существующем chi.Router.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions регистрирует маршруты с указанными параметрами.
// По умолчанию ошибки разбора параметров отдаются как 400 text/plain.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/", wrapper.Root)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health/live", wrapper.HealthLive)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health/ready", wrapper.HealthReady)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.GetMetrics)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/openapi.json", wrapper.GetOpenAPI)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/submitData", wrapper.SubmitData)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/submitData", wrapper.ListSubmitData)
		r.Get(options.BaseURL+"/submitData/", wrapper.ListSubmitData)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/submitData/{id}", wrapper.GetSubmitData)
	})
	r.Group(func(r chi.Router) {
		r.Patch(options.BaseURL+"/submitData/{id}", wrapper.PatchSubmitData)
	})

	return r
}
