package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	ordersports "github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
)

const tracerName = "github.com/bloodlink/bloodlink-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Create(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create",
		trace.WithAttributes(
			attribute.Int64("order.blood_bank_id", input.BloodBankID),
			attribute.Int64("order.hospital_id", input.HospitalID),
			attribute.String("order.to", string(input.To))))
	defer span.End()

	s.logInfo(ctx, "creating order",
		slog.Int64("order.blood_bank_id", input.BloodBankID),
		slog.Int64("order.hospital_id", input.HospitalID))
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order",
			slog.Int64("order.blood_bank_id", input.BloodBankID),
			slog.Int64("order.hospital_id", input.HospitalID))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) Settle(ctx context.Context, orderID int64, caller ordersports.Caller, decision ordersdomain.Status) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Settle",
		trace.WithAttributes(
			attribute.Int64("order.id", orderID),
			attribute.String("order.decision", string(decision)),
			attribute.String("caller.party", string(caller.Party))))
	defer span.End()

	s.logInfo(ctx, "settling order",
		slog.Int64("order.id", orderID), slog.String("decision", string(decision)))
	result, err := s.inner.Settle(ctx, orderID, caller, decision)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to settle order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordSettled(ctx, result.Status)
	s.logInfo(ctx, "order settled",
		slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) List(ctx context.Context, caller ordersports.Caller) ([]ordersports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List",
		trace.WithAttributes(
			attribute.String("caller.party", string(caller.Party)),
			attribute.Int64("caller.institution_id", caller.InstitutionID)))
	defer span.End()

	result, err := s.inner.List(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders",
			slog.Int64("caller.institution_id", caller.InstitutionID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) Get(ctx context.Context, orderID int64) (*ordersports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.Get(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	ordersSettled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of transfer orders created"))
	ordersSettled, _ := m.Int64Counter("orders.service.settled", metric.WithDescription("Number of transfer orders settled"))
	return serviceMetrics{ordersCreated: ordersCreated, ordersSettled: ordersSettled}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordSettled(ctx context.Context, status ordersdomain.Status) {
	if m.ordersSettled != nil {
		m.ordersSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
