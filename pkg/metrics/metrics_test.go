// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEnabled(t *testing.T) {
	// Metrics should be enabled by default
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled by default")
	}

	// Test disabling
	Disable()
	if IsEnabled() {
		t.Error("Expected metrics to be disabled after Disable()")
	}

	// Test enabling
	Enable()
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled after Enable()")
	}
}

func TestRecordCeremony(t *testing.T) {
	Enable()

	// Reset counters before test
	CeremoniesTotal.Reset()
	CeremonyDuration.Reset()

	// Record a successful ceremony
	RecordCeremony(OpRegisterFinish, StatusSuccess, 0.05)

	// Verify counter incremented
	count := testutil.CollectAndCount(CeremoniesTotal)
	if count != 1 {
		t.Errorf("Expected 1 ceremony recorded, got %d", count)
	}

	// Verify histogram updated
	histCount := testutil.CollectAndCount(CeremonyDuration)
	if histCount != 1 {
		t.Errorf("Expected 1 histogram sample, got %d", histCount)
	}

	// Record a rejected ceremony
	RecordCeremony(OpAuthFinish, StatusRejected, 0.01)

	// Verify counter incremented again
	count = testutil.CollectAndCount(CeremoniesTotal)
	if count != 2 {
		t.Errorf("Expected 2 ceremonies recorded, got %d", count)
	}
}

func TestRecordCeremonyWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	// Reset counters
	CeremoniesTotal.Reset()

	// Record ceremony while disabled
	RecordCeremony(OpRegisterStart, StatusSuccess, 0.5)

	// Verify nothing was recorded
	count := testutil.CollectAndCount(CeremoniesTotal)
	if count != 0 {
		t.Errorf("Expected 0 ceremonies when disabled, got %d", count)
	}
}

func TestRecordError(t *testing.T) {
	Enable()

	// Reset counters
	ErrorsTotal.Reset()

	// Record an error
	RecordError(OpRegisterFinish, "challenge_invalid")

	// Verify counter incremented
	count := testutil.CollectAndCount(ErrorsTotal)
	if count != 1 {
		t.Errorf("Expected 1 error recorded, got %d", count)
	}

	// Record another error
	RecordError(OpAuthFinish, "malformed_encoding")

	// Verify counter incremented again
	count = testutil.CollectAndCount(ErrorsTotal)
	if count != 2 {
		t.Errorf("Expected 2 errors recorded, got %d", count)
	}
}

func TestRecordErrorWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	// Reset counters
	ErrorsTotal.Reset()

	// Record error while disabled
	RecordError(OpRegisterFinish, "challenge_invalid")

	// Verify nothing was recorded
	count := testutil.CollectAndCount(ErrorsTotal)
	if count != 0 {
		t.Errorf("Expected 0 errors when disabled, got %d", count)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	Enable()

	// Reset metrics
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	// Record HTTP request
	RecordHTTPRequest("POST", "200", 0.05)

	// Verify metrics recorded
	count := testutil.CollectAndCount(HTTPRequestsTotal)
	if count != 1 {
		t.Errorf("Expected 1 HTTP request recorded, got %d", count)
	}

	histCount := testutil.CollectAndCount(HTTPRequestDuration)
	if histCount != 1 {
		t.Errorf("Expected 1 HTTP histogram sample, got %d", histCount)
	}
}

func TestChallengeGauges(t *testing.T) {
	Enable()

	// Set and collect the challenge gauges without panicking
	SetChallengesOutstanding(7)
	AddChallengesSwept(3)
	SetCredentialsTotal(12)

	collectors := []prometheus.Collector{
		ChallengesOutstanding, ChallengesSweptTotal, CredentialsTotal,
	}

	for _, collector := range collectors {
		count := testutil.CollectAndCount(collector)
		if count == 0 {
			t.Errorf("Expected gauge %v to be collecting", collector)
		}
	}
}

func TestOperationConstants(t *testing.T) {
	// Verify operation constants are defined
	operations := []string{
		OpRegisterStart, OpRegisterFinish, OpAuthStart, OpAuthFinish,
	}

	for _, op := range operations {
		if op == "" {
			t.Error("Operation constant is empty")
		}
	}
}

func TestStatusConstants(t *testing.T) {
	// Verify status constants are defined
	if StatusSuccess == "" {
		t.Error("StatusSuccess constant is empty")
	}
	if StatusRejected == "" {
		t.Error("StatusRejected constant is empty")
	}
	if StatusError == "" {
		t.Error("StatusError constant is empty")
	}
}

func TestMetricsNamespace(t *testing.T) {
	if Namespace == "" {
		t.Error("Namespace constant is empty")
	}
	if Namespace != "passkey" {
		t.Errorf("Expected namespace 'passkey', got '%s'", Namespace)
	}
}

func TestResourceGauges(t *testing.T) {
	Enable()

	// Verify all resource gauges can be set without panicking
	Goroutines.Set(100)
	MemoryAllocBytes.Set(1024 * 1024)
	MemorySysBytes.Set(10 * 1024 * 1024)
	GCPauseTotalSeconds.Set(0.5)
	ServerUptime.Set(3600)

	// Verify gauges are collecting
	collectors := []prometheus.Collector{
		Goroutines, MemoryAllocBytes, MemorySysBytes,
		GCPauseTotalSeconds, ServerUptime,
	}

	for _, collector := range collectors {
		count := testutil.CollectAndCount(collector)
		if count == 0 {
			t.Errorf("Expected gauge %v to be collecting", collector)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	Enable()

	// Reset metrics
	CeremoniesTotal.Reset()

	// Concurrently record ceremonies
	done := make(chan bool)
	operations := 100

	for i := 0; i < operations; i++ {
		go func() {
			RecordCeremony(OpAuthStart, StatusSuccess, 0.1)
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < operations; i++ {
		<-done
	}

	count := testutil.CollectAndCount(CeremoniesTotal)
	if count == 0 {
		t.Error("Expected ceremonies to be recorded concurrently")
	}
}

func BenchmarkRecordCeremony(b *testing.B) {
	Enable()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RecordCeremony(OpRegisterFinish, StatusSuccess, 0.001)
	}
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	Enable()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RecordHTTPRequest("POST", "200", 0.001)
	}
}
