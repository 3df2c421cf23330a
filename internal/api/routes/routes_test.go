package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// recordingServer — ServerInterface, запоминающий вызванную операцию и параметры.
type recordingServer struct {
	op    string
	id    int64
	email string
}

func (s *recordingServer) Root(w http.ResponseWriter, _ *http.Request)        { s.op = "Root" }
func (s *recordingServer) HealthLive(w http.ResponseWriter, _ *http.Request)  { s.op = "HealthLive" }
func (s *recordingServer) HealthReady(w http.ResponseWriter, _ *http.Request) { s.op = "HealthReady" }
func (s *recordingServer) GetMetrics(w http.ResponseWriter, _ *http.Request)  { s.op = "GetMetrics" }
func (s *recordingServer) GetOpenAPI(w http.ResponseWriter, _ *http.Request)  { s.op = "GetOpenAPI" }
func (s *recordingServer) SubmitData(w http.ResponseWriter, _ *http.Request)  { s.op = "SubmitData" }

func (s *recordingServer) ListSubmitData(w http.ResponseWriter, _ *http.Request, params ListSubmitDataParams) {
	s.op = "ListSubmitData"
	s.email = params.UserEmail
}

func (s *recordingServer) GetSubmitData(w http.ResponseWriter, _ *http.Request, id int64) {
	s.op = "GetSubmitData"
	s.id = id
}

func (s *recordingServer) PatchSubmitData(w http.ResponseWriter, _ *http.Request, id int64) {
	s.op = "PatchSubmitData"
	s.id = id
}

func TestHandlerFromMux_Routing(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		wantOp    string
		wantID    int64
		wantEmail string
	}{
		{"корень", http.MethodGet, "/", "Root", 0, ""},
		{"liveness", http.MethodGet, "/health/live", "HealthLive", 0, ""},
		{"readiness", http.MethodGet, "/health/ready", "HealthReady", 0, ""},
		{"метрики", http.MethodGet, "/metrics", "GetMetrics", 0, ""},
		{"openapi", http.MethodGet, "/openapi.json", "GetOpenAPI", 0, ""},
		{"создание", http.MethodPost, "/submitData", "SubmitData", 0, ""},
		{"чтение по id", http.MethodGet, "/submitData/42", "GetSubmitData", 42, ""},
		{"изменение", http.MethodPatch, "/submitData/7", "PatchSubmitData", 7, ""},
		{"поиск со слэшем", http.MethodGet, "/submitData/?user__email=test_user%40mail.ru", "ListSubmitData", 0, "test_user@mail.ru"},
		{"поиск без слэша", http.MethodGet, "/submitData?user__email=a@b.ru", "ListSubmitData", 0, "a@b.ru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &recordingServer{}
			router := chi.NewRouter()
			HandlerFromMux(srv, router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			if srv.op != tt.wantOp {
				t.Fatalf("вызвана операция %q, ожидалась %q (status %d)", srv.op, tt.wantOp, rec.Code)
			}
			if srv.id != tt.wantID {
				t.Errorf("id = %d, ожидался %d", srv.id, tt.wantID)
			}
			if srv.email != tt.wantEmail {
				t.Errorf("email = %q, ожидался %q", srv.email, tt.wantEmail)
			}
		})
	}
}

func TestHandlerWithOptions_ParamErrors(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		wantParam string
	}{
		{"нечисловой id", http.MethodGet, "/submitData/abc", "id"},
		{"нечисловой id в PATCH", http.MethodPatch, "/submitData/1.5", "id"},
		{"нет user__email", http.MethodGet, "/submitData/", "user__email"},
		{"пустой user__email", http.MethodGet, "/submitData/?user__email=", "user__email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &recordingServer{}
			var gotErr error
			router := chi.NewRouter()
			HandlerWithOptions(srv, ChiServerOptions{
				BaseRouter: router,
				ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
					gotErr = err
					w.WriteHeader(http.StatusBadRequest)
				},
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			if srv.op != "" {
				t.Errorf("обработчик %q не должен вызываться", srv.op)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, ожидался 400", rec.Code)
			}

			var param string
			switch e := gotErr.(type) {
			case *RequiredParamError:
				param = e.ParamName
			case *InvalidParamFormatError:
				param = e.ParamName
			default:
				t.Fatalf("неожиданный тип ошибки %T: %v", gotErr, gotErr)
			}
			if param != tt.wantParam {
				t.Errorf("параметр = %q, ожидался %q", param, tt.wantParam)
			}
		})
	}
}

func TestHandler_DefaultErrorHandler(t *testing.T) {
	h := Handler(&recordingServer{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submitData/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, ожидался 400", rec.Code)
	}
}
