package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// maxRenderBody bounds the request body accepted by POST /render.
const maxRenderBody = 8 << 20

// Server exposes rendering over HTTP. Every request renders independently
// with the server defaults overridden by query parameters.
type Server struct {
	Addr     string
	Defaults config
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/render", s.handleRender)
	return r
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	logger.Info("server listening", "addr", s.Addr)
	return srv.ListenAndServe()
}

func (s *Server) handleRender(c *gin.Context) {
	conf, err := s.requestConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asm, err := conf.assembler()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRenderBody+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read body: %v", err)})
		return
	}
	if len(body) > maxRenderBody {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
		return
	}

	var buf bytes.Buffer
	if err := asm.Write(&buf, asm.Render(string(body))); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, asm.ContentType(), buf.Bytes())
}

// requestConfig applies the linkify, classes, strip and format query
// parameters on top of the server defaults.
func (s *Server) requestConfig(c *gin.Context) (config, error) {
	conf := s.Defaults
	for _, b := range []struct {
		key string
		dst *bool
	}{
		{"linkify", &conf.Linkify},
		{"classes", &conf.Classes},
		{"strip", &conf.StripSequences},
	} {
		v, ok := c.GetQuery(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid %s=%q", b.key, v)
		}
		*b.dst = parsed
	}
	if v, ok := c.GetQuery("format"); ok {
		conf.Format = v
	}
	if v, ok := c.GetQuery("class_name"); ok {
		conf.ClassName = v
	}
	return conf, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /render over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(gin.ReleaseMode)
		srv := &Server{Addr: serveAddr, Defaults: cfg}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := srv.Start(ctx); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", envString("ANSISPAN_ADDR", "127.0.0.1:8790"), "address to bind (host:port)")
}
