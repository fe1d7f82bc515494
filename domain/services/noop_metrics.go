package services

// NoopMetrics discards every relay measurement
type NoopMetrics struct{}

func (NoopMetrics) RecordMessageRelayed(string) {}

func (NoopMetrics) RecordMessageBlocked(string) {}

func (NoopMetrics) RecordDelivery(string, string) {}

func (NoopMetrics) RecordAuditFailure() {}
