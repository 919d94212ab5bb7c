package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"gomediate/adapters/excel"
	"gomediate/app"
	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/internal"

	"github.com/gin-gonic/gin"
)

// Server exposes the permutation engine over HTTP. Request options left at
// their zero value fall back to the configured defaults.
type Server struct {
	service  *app.MediationService
	defaults app.RunOptions
	router   *gin.Engine
	logger   *internal.Logger
}

// NewServer creates the HTTP server and registers routes.
func NewServer(service *app.MediationService, defaults app.RunOptions, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		service:  service,
		defaults: defaults,
		router:   gin.Default(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

// Router returns the underlying handler, used by tests and by main.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	s.logger.Info("mediation API listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	api := s.router.Group("/api")
	{
		api.POST("/mediation/run", s.handleRun)
		api.POST("/mediation/run-file", s.handleRunFile)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleRun accepts the model inputs and options as JSON, runs the
// permutation test and returns the baseline with null-distribution
// summaries (full distributions on request).
func (s *Server) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, err := req.toDataset()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := app.RunOptions{
		Iterations: req.Niter,
		RegType:    req.RegType,
		Seed:       req.Seed,
		Workers:    req.Workers,
	}
	s.execute(c, ds, opts, req.IncludePerms)
}

// handleRunFile accepts a multipart upload of an Excel or CSV dataset (form
// field "dataset", columns mapped by the header convention) with the run
// options as form fields.
func (s *Server) handleRunFile(c *gin.Context) {
	upload, err := c.FormFile("dataset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing dataset file: " + err.Error()})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), core.NewID().String()+filepath.Ext(upload.Filename))
	if err := c.SaveUploadedFile(upload, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(tmpPath)

	ds, err := excel.NewDatasetReader(tmpPath).Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := app.RunOptions{
		Iterations: formInt(c, "niter"),
		RegType:    c.PostForm("reg_type"),
		Seed:       int64(formInt(c, "seed")),
		Workers:    formInt(c, "workers"),
	}
	s.execute(c, ds, opts, c.PostForm("include_perms") == "true")
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := s.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	run, err := s.service.GetRun(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

func formInt(c *gin.Context, key string) int {
	v, _ := strconv.Atoi(c.PostForm(key))
	return v
}

func (s *Server) execute(c *gin.Context, ds *mediation.Dataset, opts app.RunOptions, includePerms bool) {
	if opts.Iterations == 0 {
		opts.Iterations = s.defaults.Iterations
	}
	if opts.Workers == 0 {
		opts.Workers = s.defaults.Workers
	}

	run, err := s.service.Run(c.Request.Context(), ds, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsConfigurationError(err) || core.IsShapeError(err) {
			status = http.StatusBadRequest
		}
		s.logger.Error("mediation run failed: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp := RunResponse{
		RunID:      run.ID.String(),
		CreatedAt:  run.CreatedAt,
		Seed:       run.Seed,
		Iterations: run.Iterations,
		Descriptor: run.Descriptor,
		Baseline:   run.Baseline,
		Summaries:  run.Summaries,
	}
	if includePerms {
		resp.Perms = run.Perms
	}
	c.JSON(http.StatusOK, resp)
}

// toDataset normalizes the raw request payload into the canonical
// column-oriented container form.
func (r *RunRequest) toDataset() (*mediation.Dataset, error) {
	if len(r.Mediators) == 0 {
		return nil, core.ErrEmptyInput
	}
	paths := make([]mediation.PathData, len(r.Mediators))
	for p := range r.Mediators {
		paths[p].Mediators = mediation.NormalizeSlice(r.Mediators[p])
		if p < len(r.Moderators) {
			paths[p].Moderators = mediation.NormalizeSlice(r.Moderators[p])
		}
	}
	return &mediation.Dataset{
		X:          r.X,
		Y:          r.Y,
		Paths:      paths,
		Covariates: mediation.NormalizeSlice(r.Covariates),
	}, nil
}
