package services_test

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
)

// recordSpans installs a recording tracer provider for the rest of the test.
func (s *LedgerEngineTestSuite) recordSpans() *tracetest.SpanRecorder {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	s.T().Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(s.ctx)
	})
	return recorder
}

func (s *LedgerEngineTestSuite) endedSpan(recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	for _, span := range recorder.Ended() {
		if span.Name() == name {
			return span
		}
	}
	s.FailNowf("span not recorded", "no ended span named %s", name)
	return nil
}

func (s *LedgerEngineTestSuite) TestTracing_RejectedEntryRecordsErrorSpan() {
	recorder := s.recordSpans()

	_, err := s.svc.Journal.CreateJournalEntry(s.ctx, testOrg,
		s.request(day(2026, 6, 1), true, s.debit("1000", "100"), s.credit("4000", "90")), testActor)
	s.Require().ErrorIs(err, apperrors.ErrUnbalancedEntry)

	span := s.endedSpan(recorder, "journalService.CreateJournalEntry")
	s.Equal(codes.Error, span.Status().Code)
	s.Contains(span.Status().Description, "balanced")
	s.Contains(span.Attributes(), attribute.String("organization_id", testOrg))
	s.Require().NotEmpty(span.Events())
	s.Equal("exception", span.Events()[0].Name)
}

func (s *LedgerEngineTestSuite) TestTracing_SuccessfulPostLeavesStatusUnset() {
	recorder := s.recordSpans()

	s.mustCreate(s.request(day(2026, 6, 1), true, s.debit("1000", "10"), s.credit("4000", "10")))

	span := s.endedSpan(recorder, "journalService.CreateJournalEntry")
	s.Equal(codes.Unset, span.Status().Code)
	s.Empty(span.Events())
}
