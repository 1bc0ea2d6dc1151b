package mocks

import (
	context "context"
	json "encoding/json"

	repositories "github.com/blogem/telemetry-log/repositories"
	mock "github.com/stretchr/testify/mock"
)

// MockTelemetryRepository is a testify mock of TelemetryRepository with typed expectation helpers
type MockTelemetryRepository struct {
	mock.Mock
}

var _ repositories.TelemetryRepository = (*MockTelemetryRepository)(nil)

type MockTelemetryRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTelemetryRepository) EXPECT() *MockTelemetryRepository_Expecter {
	return &MockTelemetryRepository_Expecter{mock: &_m.Mock}
}

// Append provides a mock function with given fields: ctx, entry
func (_m *MockTelemetryRepository) Append(ctx context.Context, entry json.RawMessage) (*repositories.AppendResult, error) {
	ret := _m.Called(ctx, entry)

	if len(ret) == 0 {
		panic("no return value specified for Append")
	}

	var r0 *repositories.AppendResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, json.RawMessage) (*repositories.AppendResult, error)); ok {
		return rf(ctx, entry)
	}
	if rf, ok := ret.Get(0).(func(context.Context, json.RawMessage) *repositories.AppendResult); ok {
		r0 = rf(ctx, entry)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*repositories.AppendResult)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, json.RawMessage) error); ok {
		r1 = rf(ctx, entry)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTelemetryRepository_Append_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Append'
type MockTelemetryRepository_Append_Call struct {
	*mock.Call
}

// Append is a helper method to define mock.On call
//   - ctx context.Context
//   - entry json.RawMessage
func (_e *MockTelemetryRepository_Expecter) Append(ctx interface{}, entry interface{}) *MockTelemetryRepository_Append_Call {
	return &MockTelemetryRepository_Append_Call{Call: _e.mock.On("Append", ctx, entry)}
}

func (_c *MockTelemetryRepository_Append_Call) Run(run func(ctx context.Context, entry json.RawMessage)) *MockTelemetryRepository_Append_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(json.RawMessage))
	})
	return _c
}

func (_c *MockTelemetryRepository_Append_Call) Return(_a0 *repositories.AppendResult, _a1 error) *MockTelemetryRepository_Append_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// GetAll provides a mock function with given fields: ctx
func (_m *MockTelemetryRepository) GetAll(ctx context.Context) ([]json.RawMessage, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetAll")
	}

	var r0 []json.RawMessage
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]json.RawMessage, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []json.RawMessage); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]json.RawMessage)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTelemetryRepository_GetAll_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetAll'
type MockTelemetryRepository_GetAll_Call struct {
	*mock.Call
}

// GetAll is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockTelemetryRepository_Expecter) GetAll(ctx interface{}) *MockTelemetryRepository_GetAll_Call {
	return &MockTelemetryRepository_GetAll_Call{Call: _e.mock.On("GetAll", ctx)}
}

func (_c *MockTelemetryRepository_GetAll_Call) Return(_a0 []json.RawMessage, _a1 error) *MockTelemetryRepository_GetAll_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// GetLatest provides a mock function with given fields: ctx
func (_m *MockTelemetryRepository) GetLatest(ctx context.Context) (json.RawMessage, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetLatest")
	}

	var r0 json.RawMessage
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (json.RawMessage, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) json.RawMessage); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(json.RawMessage)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTelemetryRepository_GetLatest_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetLatest'
type MockTelemetryRepository_GetLatest_Call struct {
	*mock.Call
}

// GetLatest is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockTelemetryRepository_Expecter) GetLatest(ctx interface{}) *MockTelemetryRepository_GetLatest_Call {
	return &MockTelemetryRepository_GetLatest_Call{Call: _e.mock.On("GetLatest", ctx)}
}

func (_c *MockTelemetryRepository_GetLatest_Call) Return(_a0 json.RawMessage, _a1 error) *MockTelemetryRepository_GetLatest_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// GetRecent provides a mock function with given fields: ctx, limit
func (_m *MockTelemetryRepository) GetRecent(ctx context.Context, limit int) ([]json.RawMessage, int, error) {
	ret := _m.Called(ctx, limit)

	if len(ret) == 0 {
		panic("no return value specified for GetRecent")
	}

	var r0 []json.RawMessage
	var r1 int
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]json.RawMessage, int, error)); ok {
		return rf(ctx, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) []json.RawMessage); ok {
		r0 = rf(ctx, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]json.RawMessage)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) int); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Get(1).(int)
	}

	if rf, ok := ret.Get(2).(func(context.Context, int) error); ok {
		r2 = rf(ctx, limit)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// MockTelemetryRepository_GetRecent_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetRecent'
type MockTelemetryRepository_GetRecent_Call struct {
	*mock.Call
}

// GetRecent is a helper method to define mock.On call
//   - ctx context.Context
//   - limit int
func (_e *MockTelemetryRepository_Expecter) GetRecent(ctx interface{}, limit interface{}) *MockTelemetryRepository_GetRecent_Call {
	return &MockTelemetryRepository_GetRecent_Call{Call: _e.mock.On("GetRecent", ctx, limit)}
}

func (_c *MockTelemetryRepository_GetRecent_Call) Return(_a0 []json.RawMessage, _a1 int, _a2 error) *MockTelemetryRepository_GetRecent_Call {
	_c.Call.Return(_a0, _a1, _a2)
	return _c
}

// Ping provides a mock function with given fields: ctx
func (_m *MockTelemetryRepository) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Ping")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockTelemetryRepository_Ping_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Ping'
type MockTelemetryRepository_Ping_Call struct {
	*mock.Call
}

// Ping is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockTelemetryRepository_Expecter) Ping(ctx interface{}) *MockTelemetryRepository_Ping_Call {
	return &MockTelemetryRepository_Ping_Call{Call: _e.mock.On("Ping", ctx)}
}

func (_c *MockTelemetryRepository_Ping_Call) Return(_a0 error) *MockTelemetryRepository_Ping_Call {
	_c.Call.Return(_a0)
	return _c
}

// NewMockTelemetryRepository creates a new instance of MockTelemetryRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTelemetryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTelemetryRepository {
	mock := &MockTelemetryRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
