package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
	"github.com/teemtee/tmt-web/internal/format"
)

// Request carries the query parameters of one metadata request. Empty
// strings mean the parameter was not provided.
type Request struct {
	TestURL  string
	TestName string
	TestRef  string
	TestPath string

	PlanURL  string
	PlanName string
	PlanRef  string
	PlanPath string

	// Format the result is rendered into at completion time. When empty,
	// the raw serialized document is stored instead and formatting happens
	// at poll time.
	Format format.Format
}

func (r Request) testObjectRef() core.ObjectRef {
	return core.ObjectRef{URL: r.TestURL, Name: r.TestName, Ref: r.TestRef, Path: r.TestPath}
}

func (r Request) planObjectRef() core.ObjectRef {
	return core.ObjectRef{URL: r.PlanURL, Name: r.PlanName, Ref: r.PlanRef, Path: r.PlanPath}
}

// MetadataService resolves tests and plans from external repositories and
// renders them into the requested output format.
type MetadataService struct {
	resolver core.Resolver
	logger   *slog.Logger
}

// MetadataServiceOptions groups dependencies for MetadataService.
type MetadataServiceOptions struct {
	Resolver core.Resolver // Required: repository index
	Logger   *slog.Logger  // Optional: structured logger
}

// NewMetadataService creates a MetadataService. Panics if the resolver is
// missing.
func NewMetadataService(opts MetadataServiceOptions) *MetadataService {
	if opts.Resolver == nil {
		panic("service: MetadataService requires a Resolver")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataService{resolver: opts.Resolver, logger: logger}
}

// ProcessRequest resolves the requested objects and returns the document
// stored on the task record: formatted output when a format is requested,
// the raw serialized form otherwise. This is the unit of work handed to
// the executor.
func (s *MetadataService) ProcessRequest(ctx context.Context, req Request) (string, error) {
	obj, err := s.resolve(ctx, req)
	if err != nil {
		return "", err
	}

	if req.Format != "" {
		return format.FormatData(obj, req.Format)
	}
	return format.Serialize(obj)
}

// resolve dispatches on which object kinds the request names. The error
// messages are returned to clients verbatim and keep their capitalization.
//
//nolint:staticcheck // ST1005: client-facing messages
func (s *MetadataService) resolve(ctx context.Context, req Request) (model.Object, error) {
	switch {
	case req.TestName != "" && req.PlanName == "":
		if req.TestURL == "" {
			return nil, errors.New("Missing required test parameters")
		}
		return s.resolver.Test(ctx, req.testObjectRef())

	case req.PlanName != "" && req.TestName == "":
		if req.PlanURL == "" {
			return nil, errors.New("Missing required plan parameters")
		}
		return s.resolver.Plan(ctx, req.planObjectRef())

	case req.TestName != "" && req.PlanName != "":
		if req.TestURL == "" || req.PlanURL == "" {
			return nil, errors.New("Missing required test/plan parameters")
		}
		test, err := s.resolver.Test(ctx, req.testObjectRef())
		if err != nil {
			return nil, err
		}
		plan, err := s.resolver.Plan(ctx, req.planObjectRef())
		if err != nil {
			return nil, err
		}
		return &model.TestPlanMetadata{Test: test, Plan: plan}, nil

	default:
		return nil, errors.New("Invalid combination of test and plan parameters")
	}
}
