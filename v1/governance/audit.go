package governance

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Record is one audit entry, emitted per governed request.
type Record struct {
	At           time.Time `json:"at"`
	ActorID      string    `json:"actor_id"`
	Index        string    `json:"index"`
	Denied       bool      `json:"denied"`
	RowsIn       int       `json:"rows_in"`
	RowsOut      int       `json:"rows_out"`
	RowsDropped  int       `json:"rows_dropped"`
	FieldsMasked int       `json:"fields_masked"`
	FieldsDenied int       `json:"fields_denied"`
}

// Sink receives audit records. Implementations must be safe for concurrent
// use.
type Sink interface {
	Write(ctx context.Context, record Record) error
}

// ZapSink writes audit records as structured log entries.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink creates an audit sink over a zap logger.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log.Named("audit")}
}

func (s *ZapSink) Write(_ context.Context, record Record) error {
	s.log.Info("search governed",
		zap.Time("at", record.At),
		zap.String("actor_id", record.ActorID),
		zap.String("index", record.Index),
		zap.Bool("denied", record.Denied),
		zap.Int("rows_in", record.RowsIn),
		zap.Int("rows_out", record.RowsOut),
		zap.Int("rows_dropped", record.RowsDropped),
		zap.Int("fields_masked", record.FieldsMasked),
		zap.Int("fields_denied", record.FieldsDenied),
	)
	return nil
}
