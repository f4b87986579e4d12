package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "jan-server/services/model-browser/catalog"

var errMalformedDescriptor = errors.New("descriptor has no technical identifier")

// Service describes the catalog query surface used by the transport layer.
type Service interface {
	// Search lists browsable models whose name or technical identifier contains term.
	Search(ctx context.Context, term string, limit int) ([]Row, error)
	// ResolveAction returns the list action for model, creating one on first use.
	ResolveAction(ctx context.Context, model string) (Resolution, error)
	// GetAction loads an action in its displayable form.
	GetAction(ctx context.Context, id uint) (ActionDefinition, error)
}

// Resolution reports the outcome of ResolveAction. Found is false when model is not registered.
type Resolution struct {
	ActionID uint
	Found    bool
	Created  bool
}

// Dependencies groups the platform collaborators the service reads through.
type Dependencies struct {
	Descriptors DescriptorRepository
	Registry    Registry
	Access      AccessChecker
	Records     RecordStore
	Actions     ActionRepository
	Tx          Transactor
}

// Options bounds the descriptor scan.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

type service struct {
	deps          Dependencies
	opts          Options
	log           zerolog.Logger
	tracer        trace.Tracer
	countFailures metric.Int64Counter
}

// NewService wires the catalog service with its collaborators.
func NewService(deps Dependencies, opts Options, log zerolog.Logger) Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 100
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"catalog.count.failures",
		metric.WithDescription("Record counts that degraded to zero"),
	)
	if err != nil {
		counter, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("catalog.count.failures")
	}

	return &service{
		deps:          deps,
		opts:          opts,
		log:           log.With().Str("component", "catalog-service").Logger(),
		tracer:        otel.Tracer(instrumentationName),
		countFailures: counter,
	}
}

func (s *service) Search(ctx context.Context, term string, limit int) ([]Row, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Search")
	defer span.End()

	limit = s.clampLimit(limit)
	span.SetAttributes(attribute.String("catalog.search_term", term), attribute.Int("catalog.limit", limit))

	descriptors, err := s.deps.Descriptors.Search(ctx, DescriptorFilter{Term: term, Limit: limit})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search descriptors")
		return nil, fmt.Errorf("search model descriptors: %w", err)
	}
	s.log.Info().Int("descriptors", len(descriptors)).Str("search_term", term).Msg("found model descriptors")

	rows := make([]Row, 0, len(descriptors))
	for _, descriptor := range descriptors {
		row, ok, err := s.browse(ctx, descriptor)
		if err != nil {
			s.log.Warn().Err(err).Str("model", descriptor.Model).Uint("descriptor_id", descriptor.ID).Msg("skipping model descriptor")
			continue
		}
		if ok {
			rows = append(rows, row)
		}
	}

	s.log.Info().Int("rows", len(rows)).Msg("returning browsable models")
	span.SetAttributes(attribute.Int("catalog.rows", len(rows)))

	if len(rows) == 0 && term == "" {
		return []Row{DiagnosticRow(len(descriptors))}, nil
	}
	return rows, nil
}

// browse turns one descriptor into a row. ok is false when the model is not live.
func (s *service) browse(ctx context.Context, descriptor ModelDescriptor) (row Row, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			row, ok, err = Row{}, false, fmt.Errorf("panic while processing descriptor: %v", r)
		}
	}()

	if strings.TrimSpace(descriptor.Model) == "" {
		return Row{}, false, errMalformedDescriptor
	}
	if !s.deps.Registry.IsRegistered(descriptor.Model) {
		s.log.Debug().Str("model", descriptor.Model).Msg("model not in registry")
		return Row{}, false, nil
	}

	return Row{
		ID:    descriptor.ID,
		Name:  descriptor.Name,
		Model: descriptor.Model,
		Count: s.recordCount(ctx, descriptor.Model),
		Info:  descriptor.Info,
	}, true, nil
}

// recordCount never fails: denials and errors degrade to zero.
func (s *service) recordCount(ctx context.Context, model string) int64 {
	allowed, err := s.deps.Access.CanRead(ctx, model)
	if err != nil {
		s.log.Debug().Err(err).Str("model", model).Msg("access check failed")
		s.recordCountFailure(ctx, model, "access_error")
		return 0
	}
	if !allowed {
		s.recordCountFailure(ctx, model, "denied")
		return 0
	}

	count, err := s.deps.Records.Elevated().Count(ctx, model)
	if err != nil {
		s.log.Debug().Err(err).Str("model", model).Msg("cannot count records")
		s.recordCountFailure(ctx, model, "count_error")
		return 0
	}
	return count
}

func (s *service) recordCountFailure(ctx context.Context, model, reason string) {
	s.countFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("reason", reason),
	))
}

func (s *service) ResolveAction(ctx context.Context, model string) (Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ResolveAction", trace.WithAttributes(attribute.String("catalog.model", model)))
	defer span.End()

	if strings.TrimSpace(model) == "" {
		return Resolution{}, nil
	}

	var res Resolution
	err := s.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		action, err := s.deps.Actions.FindListAction(ctx, model)
		if err != nil {
			return err
		}
		if action != nil {
			res = Resolution{ActionID: action.ID, Found: true}
			return nil
		}

		descriptor, err := s.deps.Descriptors.FindByModel(ctx, model, true)
		if err != nil {
			return err
		}
		if descriptor == nil {
			return nil
		}

		// Another caller may have created the action while we waited for the lock.
		action, err = s.deps.Actions.FindListAction(ctx, model)
		if err != nil {
			return err
		}
		if action != nil {
			res = Resolution{ActionID: action.ID, Found: true}
			return nil
		}

		created := &ListAction{
			Name:     descriptor.Name,
			ResModel: model,
			ViewMode: DefaultViewMode,
			Type:     WindowActionType,
			Target:   DefaultTarget,
			Context:  map[string]any{},
		}
		if err := s.deps.Actions.Create(ctx, created); err != nil {
			return err
		}
		s.log.Info().Str("model", model).Uint("action_id", created.ID).Msg("created list action")
		res = Resolution{ActionID: created.ID, Found: true, Created: true}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve action")
		return Resolution{}, fmt.Errorf("resolve list action for %s: %w", model, err)
	}
	return res, nil
}

func (s *service) GetAction(ctx context.Context, id uint) (ActionDefinition, error) {
	action, err := s.deps.Actions.FindByID(ctx, id)
	if err != nil {
		return ActionDefinition{}, fmt.Errorf("load action %d: %w", id, err)
	}
	if action == nil {
		return ActionDefinition{}, ErrActionNotFound
	}
	return action.Definition(), nil
}

func (s *service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// DiagnosticRow is returned instead of an empty listing when an unfiltered scan found
// descriptors but none of them resolved to a live model.
func DiagnosticRow(matched int) Row {
	return Row{
		ID:    0,
		Name:  fmt.Sprintf("DEBUG: Found %d model descriptors but 0 browsable", matched),
		Model: DescriptorModel,
		Count: int64(matched),
		Info:  diagnosticRowInfo,
	}
}

// ErrorRow renders a failure as a single visible row so callers always receive a row list.
func ErrorRow(err error) Row {
	msg := err.Error()
	return Row{
		ID:    0,
		Name:  "ERROR: " + truncate(msg, 100),
		Model: ErrorRowModel,
		Count: 0,
		Info:  truncate(msg, 1000),
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
