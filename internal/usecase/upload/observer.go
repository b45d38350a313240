package upload

import "time"

// Observer captures telemetry for pipeline executions.
type Observer interface {
	RecordStage(stage string, duration time.Duration)
	// RecordUpload is called once per execution; code is empty on success.
	RecordUpload(duration time.Duration, sizeBytes int64, code string)
	RecordCleanup(keys int, failed int)
	RecordInFlight(listings int)
}

type nopObserver struct{}

func (nopObserver) RecordStage(string, time.Duration) {}

func (nopObserver) RecordUpload(time.Duration, int64, string) {}

func (nopObserver) RecordCleanup(int, int) {}

func (nopObserver) RecordInFlight(int) {}
