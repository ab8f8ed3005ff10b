package vpp

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// mockPowerSink is a hand-written gomock mock for the PowerSink
// interface, following the shape mockgen would produce for it.
type mockPowerSink struct {
	ctrl     *gomock.Controller
	recorder *mockPowerSinkRecorder
}

type mockPowerSinkRecorder struct {
	mock *mockPowerSink
}

func newMockPowerSink(ctrl *gomock.Controller) *mockPowerSink {
	m := &mockPowerSink{ctrl: ctrl}
	m.recorder = &mockPowerSinkRecorder{m}
	return m
}

func (m *mockPowerSink) EXPECT() *mockPowerSinkRecorder {
	return m.recorder
}

func (m *mockPowerSink) WriteRecord(simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW float64) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "WriteRecord", simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW)
}

func (mr *mockPowerSinkRecorder) WriteRecord(simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteRecord",
		reflect.TypeOf((*mockPowerSink)(nil).WriteRecord),
		simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW)
}
