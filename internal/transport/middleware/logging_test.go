package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/scime/ecommerce/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequestID", func() {
	echoHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(middleware.TraceID(r.Context())))
	})

	It("should generate a trace id and echo it on the response", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		middleware.RequestID(echoHandler).ServeHTTP(rec, req)

		traceID := rec.Header().Get("X-Trace-ID")
		Expect(traceID).NotTo(BeEmpty())
		Expect(rec.Body.String()).To(Equal(traceID))
	})

	It("should honor a caller-supplied X-Trace-ID", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("X-Trace-ID", "trace-from-caller")
		rec := httptest.NewRecorder()

		middleware.RequestID(echoHandler).ServeHTTP(rec, req)

		Expect(rec.Header().Get("X-Trace-ID")).To(Equal("trace-from-caller"))
		Expect(rec.Body.String()).To(Equal("trace-from-caller"))
	})

	It("should return an empty trace id outside the chain", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		Expect(middleware.TraceID(req.Context())).To(BeEmpty())
	})
})

var _ = Describe("LoggingMiddleware", func() {
	var (
		logOutput *bytes.Buffer
		chain     http.Handler
	)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	BeforeEach(func() {
		logOutput = &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(logOutput, nil))
		chain = middleware.RequestID(middleware.LoggingMiddleware(logger)(okHandler))
	})

	It("should log the request and response with the trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("X-Trace-ID", "trace-123")
		rec := httptest.NewRecorder()

		chain.ServeHTTP(rec, req)

		logs := logOutput.String()
		Expect(logs).To(ContainSubstring("incoming request"))
		Expect(logs).To(ContainSubstring("response"))
		Expect(strings.Count(logs, "trace-123")).To(BeNumerically(">=", 2))
		Expect(logs).To(ContainSubstring("status_code=200"))
	})

	It("should mask credentials in the request body", func() {
		body := strings.NewReader(`{"email":"buyer@example.com","password":"supersecret"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		rec := httptest.NewRecorder()

		chain.ServeHTTP(rec, req)

		logs := logOutput.String()
		Expect(logs).NotTo(ContainSubstring("supersecret"))
		Expect(logs).To(ContainSubstring("[FILTERED]"))
		Expect(logs).To(ContainSubstring("buyer@example.com"))
	})

	It("should mask credential-bearing headers", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer very-secret-token")
		rec := httptest.NewRecorder()

		chain.ServeHTTP(rec, req)

		Expect(logOutput.String()).NotTo(ContainSubstring("very-secret-token"))
	})

	It("should leave the request body readable for the handler", func() {
		var seenBody string
		reader := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			b.ReadFrom(r.Body)
			seenBody = b.String()
		})
		logger := slog.New(slog.NewTextHandler(logOutput, nil))
		h := middleware.LoggingMiddleware(logger)(reader)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", strings.NewReader(`{"name":"moderators"}`))
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seenBody).To(Equal(`{"name":"moderators"}`))
	})

	It("should not log probe endpoints", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		rec := httptest.NewRecorder()

		chain.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(logOutput.Len()).To(BeZero())
	})
})
