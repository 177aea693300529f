package binstat

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/internal/libs/serializer"
	"github.com/hyp3rd/binstat/internal/sentinel"
)

// ManagementHTTPOption configures the management HTTP server.
type ManagementHTTPOption func(*ManagementHTTPServer)

// ManagementHTTPServer exposes a Service over HTTP with Fiber.
type ManagementHTTPServer struct {
	addr         string
	app          *fiber.App
	readTimeout  time.Duration
	writeTimeout time.Duration
	bodyLimit    int
	authFunc     func(fiber.Ctx) error
	formats      *serializer.Registry
	ln           net.Listener
	started      bool
}

// WithMgmtAuth sets an auth function (return error to block).
func WithMgmtAuth(fn func(fiber.Ctx) error) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.authFunc = fn }
}

// WithMgmtReadTimeout sets read timeout.
func WithMgmtReadTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.readTimeout = d }
}

// WithMgmtWriteTimeout sets write timeout.
func WithMgmtWriteTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.writeTimeout = d }
}

// WithMgmtBodyLimit caps request bodies in bytes.
func WithMgmtBodyLimit(n int) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.bodyLimit = n }
}

// NewManagementHTTPServer builds the server and mounts the routes for svc (lazy start).
func NewManagementHTTPServer(addr string, svc Service, opts ...ManagementHTTPOption) *ManagementHTTPServer {
	srv := &ManagementHTTPServer{
		addr:         addr,
		readTimeout:  constants.DefaultMgmtReadTimeout,
		writeTimeout: constants.DefaultMgmtWriteTimeout,
		bodyLimit:    constants.DefaultMgmtBodyLimit,
		formats:      serializer.NewSerializerRegistry(),
	}
	for _, opt := range opts { // apply options
		opt(srv)
	}

	srv.app = fiber.New(fiber.Config{
		ReadTimeout:  srv.readTimeout,
		WriteTimeout: srv.writeTimeout,
		BodyLimit:    srv.bodyLimit,
		// route params outlive the request as store names
		Immutable:    true,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	srv.mountRoutes(svc)

	return srv
}

// App returns the underlying Fiber app (handy for app.Test).
func (s *ManagementHTTPServer) App() *fiber.App { return s.app }

// Start launches listener (idempotent).
func (s *ManagementHTTPServer) Start(ctx context.Context) error {
	if s.started { // idempotent
		return nil
	}

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ewrap.Wrap(err, "mgmt listen")
	}

	s.ln = ln

	go func() {
		_ = s.app.Listener(ln)
	}()

	s.started = true

	return nil
}

// Address returns the bound address (useful when passing ":0" for ephemeral port). Empty if not started yet.
func (s *ManagementHTTPServer) Address() string {
	if s.ln == nil {
		return ""
	}

	return s.ln.Addr().String()
}

// Shutdown stops the server.
func (s *ManagementHTTPServer) Shutdown(ctx context.Context) error {
	if !s.started {
		return nil
	}

	ch := make(chan error, 1)

	go func() {
		ch <- s.app.Shutdown()
	}()

	select {
	case <-ctx.Done():
		return sentinel.ErrMgmtHTTPShutdownTimeout
	case err := <-ch:
		return err
	}
}

type createRequest struct {
	Edges [][]float64 `json:"edges"`
	DDOF  *uint       `json:"ddof,omitempty"`
}

type samplesRequest struct {
	Points [][]float64 `json:"points"`
	Values []float64   `json:"values"`
}

func (s *ManagementHTTPServer) mountRoutes(svc Service) {
	useAuth := s.wrapAuth

	s.app.Get("/health", useAuth(func(c fiber.Ctx) error { return c.SendString("ok") }))
	s.app.Get("/stats", useAuth(func(c fiber.Ctx) error { return c.JSON(svc.GetStats()) }))
	s.app.Get("/stores", useAuth(func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"stores": svc.Names(c.Context())})
	}))

	s.app.Get("/snapshots", useAuth(func(c fiber.Ctx) error {
		names, err := svc.Persisted(c.Context())
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{"snapshots": names})
	}))

	s.app.Post("/stores/:name", useAuth(func(c fiber.Ctx) error {
		var req createRequest

		err := json.Unmarshal(c.Body(), &req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var opts []StoreOption
		if req.DDOF != nil {
			opts = append(opts, WithDDOF(*req.DDOF))
		}

		err = svc.Create(c.Context(), c.Params("name"), req.Edges, opts...)
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusCreated)
	}))

	s.app.Get("/stores/:name", useAuth(func(c fiber.Ctx) error {
		report, err := svc.Report(c.Context(), c.Params("name"))
		if err != nil {
			return err
		}

		return c.JSON(report)
	}))

	s.app.Get("/stores/:name/snapshot", useAuth(func(c fiber.Ctx) error {
		ser, err := s.formats.Negotiate(c.Get(fiber.HeaderAccept), constants.DefaultSerializer)
		if err != nil {
			return fiber.NewError(fiber.StatusNotAcceptable, err.Error())
		}

		snap, err := svc.Snapshot(c.Context(), c.Params("name"))
		if err != nil {
			return err
		}

		data, err := ser.Marshal(snap)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, ser.ContentType())

		return c.Send(data)
	}))

	s.app.Delete("/stores/:name", useAuth(func(c fiber.Ctx) error {
		err := svc.Drop(c.Context(), c.Params("name"))
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}))

	s.app.Post("/stores/:name/samples", useAuth(func(c fiber.Ctx) error {
		var req samplesRequest

		err := json.Unmarshal(c.Body(), &req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		accepted, err := svc.ObserveBatch(c.Context(), c.Params("name"), req.Points, req.Values)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{"accepted": accepted, "dropped": len(req.Points) - accepted})
	}))

	s.app.Post("/stores/:name/merge/:source", useAuth(func(c fiber.Ctx) error {
		err := svc.Merge(c.Context(), c.Params("name"), c.Params("source"))
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusOK)
	}))

	s.app.Post("/stores/:name/persist", useAuth(func(c fiber.Ctx) error {
		err := svc.Persist(c.Context(), c.Params("name"))
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusAccepted)
	}))

	s.app.Post("/stores/:name/load", useAuth(func(c fiber.Ctx) error {
		err := svc.Load(c.Context(), c.Params("name"))
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusOK)
	}))
}

// wrapAuth returns an auth-wrapped handler if authFunc provided.
func (s *ManagementHTTPServer) wrapAuth(handler fiber.Handler) fiber.Handler { //nolint:ireturn
	if s.authFunc == nil {
		return handler
	}

	return func(fiberCtx fiber.Ctx) error {
		authErr := s.authFunc(fiberCtx)
		if authErr != nil {
			return authErr
		}

		return handler(fiberCtx)
	}
}

// errorHandler maps engine errors onto HTTP status codes.
func errorHandler(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	case errors.Is(err, sentinel.ErrStoreNotFound), errors.Is(err, sentinel.ErrSnapshotNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, sentinel.ErrStoreExists):
		status = fiber.StatusConflict
	case errors.Is(err, sentinel.ErrBackendNotFound):
		status = fiber.StatusNotImplemented
	case errors.Is(err, sentinel.ErrGridMismatch),
		errors.Is(err, sentinel.ErrDDOFMismatch),
		errors.Is(err, sentinel.ErrDimensionMismatch),
		errors.Is(err, sentinel.ErrLengthMismatch),
		errors.Is(err, sentinel.ErrInvalidEdges),
		errors.Is(err, sentinel.ErrInvalidValue),
		errors.Is(err, sentinel.ErrInvalidDegreesOfFreedom),
		errors.Is(err, sentinel.ErrCorruptSnapshot),
		errors.Is(err, sentinel.ErrParamCannotBeEmpty):
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
