// Package web отдаёт HTML-страницы режимов практики и экзамена.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/letsssgooo/cbtquiz/internal/engine"
	"github.com/letsssgooo/cbtquiz/internal/images"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Options — параметры отображения.
type Options struct {
	Title      string
	Slider     string // "range" | "select"
	ShowAnswer bool
}

// Server — HTTP-интерфейс CBT.
type Server struct {
	engine   engine.QuizEngine
	resolver *images.Resolver
	opts     Options
	router   *gin.Engine
}

// NewServer собирает роутер gin со всеми маршрутами.
func NewServer(e engine.QuizEngine, resolver *images.Resolver, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   e,
		resolver: resolver,
		opts:     opts,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), sessionMiddleware())
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/practice")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/images/:name", s.image)

	router.GET("/practice", s.practice)
	router.POST("/practice/grade", s.practiceGrade)

	router.GET("/exam", s.exam)
	router.POST("/exam/start", s.examStart)
	router.POST("/exam/answer", s.examAnswer)
	router.POST("/exam/end", s.examEnd)
	router.POST("/exam/reset", s.examReset)
	router.GET("/exam/result.csv", s.examExportCSV)
	router.GET("/exam/result.xlsx", s.examExportXLSX)

	s.router = router

	return s
}

// Handler возвращает http.Handler сервера.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает addr до отмены ctx, затем корректно останавливает сервер.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down http server")

	return srv.Shutdown(shutdownCtx)
}
