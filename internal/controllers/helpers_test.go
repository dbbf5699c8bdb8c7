package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hrdesk/leave_service/internal/config"
	"github.com/hrdesk/leave_service/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// DBInterface defines the interface for database operations.
type DBInterface interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// RedisInterface defines the interface for Redis operations.
type RedisInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// EmployeeFieldDescriptions mirrors the employees table column order.
var EmployeeFieldDescriptions = []pgconn.FieldDescription{
	{Name: "id", DataTypeOID: 20},            // int8 (uint64)
	{Name: "name", DataTypeOID: 25},          // text (string)
	{Name: "email", DataTypeOID: 25},         // text (string)
	{Name: "department", DataTypeOID: 25},    // text (string)
	{Name: "joining_date", DataTypeOID: 1114},
	{Name: "leave_balance", DataTypeOID: 23}, // int4 (int)
	{Name: "created_at", DataTypeOID: 1114},
	{Name: "updated_at", DataTypeOID: 1114},
}

// LeaveRequestFieldDescriptions mirrors the leave_requests table column order.
var LeaveRequestFieldDescriptions = []pgconn.FieldDescription{
	{Name: "id", DataTypeOID: 20},          // int8 (uint64)
	{Name: "employee_id", DataTypeOID: 20}, // int8 (uint64)
	{Name: "start_date", DataTypeOID: 1114},
	{Name: "end_date", DataTypeOID: 1114},
	{Name: "reason", DataTypeOID: 25}, // text (string)
	{Name: "status", DataTypeOID: 25}, // text (LeaveStatus)
	{Name: "applied_at", DataTypeOID: 1114},
	{Name: "reviewed_by", DataTypeOID: 25},  // text (nullable)
	{Name: "reviewed_at", DataTypeOID: 1114}, // timestamp (nullable)
	{Name: "comments", DataTypeOID: 25},     // text (nullable)
}

// MockDB represents a mock database connection.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Rows), callArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

func scanValue(dest interface{}, val interface{}) {
	switch d := dest.(type) {
	case *uint64:
		if v, ok := val.(uint64); ok {
			*d = v
		}
	case *int:
		if v, ok := val.(int); ok {
			*d = v
		}
	case *int64:
		if v, ok := val.(int64); ok {
			*d = v
		}
	case *string:
		if v, ok := val.(string); ok {
			*d = v
		}
	case *entity.LeaveStatus:
		switch v := val.(type) {
		case entity.LeaveStatus:
			*d = v
		case string:
			*d = entity.LeaveStatus(v)
		}
	case *time.Time:
		if v, ok := val.(time.Time); ok {
			*d = v
		}
	case **string:
		if v, ok := val.(*string); ok {
			*d = v
		}
	case **time.Time:
		if v, ok := val.(*time.Time); ok {
			*d = v
		}
	case *interface{}:
		*d = val
	}
}

// MockRow represents a mock database row.
type MockRow struct {
	mock.Mock
	data []interface{}
	err  error
}

func NewMockRow(data []interface{}, err error) *MockRow {
	return &MockRow{
		data: data,
		err:  err,
	}
}

// Scan scans the row data into the provided destinations.
func (m *MockRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}

	for i, val := range m.data {
		if i < len(dest) {
			scanValue(dest[i], val)
		}
	}
	return nil
}

// MockRows represents mock database rows.
type MockRows struct {
	mock.Mock
	rows       [][]interface{}
	pos        int
	err        error
	fieldDescs []pgconn.FieldDescription
}

func NewMockRows(rows [][]interface{}, err error, fieldDescs []pgconn.FieldDescription) *MockRows {
	if fieldDescs == nil {
		fieldDescs = LeaveRequestFieldDescriptions
	}
	return &MockRows{
		rows:       rows,
		pos:        -1,
		err:        err,
		fieldDescs: fieldDescs,
	}
}

func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return m.fieldDescs
}

func (m *MockRows) Next() bool {
	m.pos++
	return m.pos < len(m.rows)
}

func (m *MockRows) Close() {}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	if m.pos >= len(m.rows) {
		return nil
	}

	row := m.rows[m.pos]
	for i, val := range row {
		if i < len(dest) {
			scanValue(dest[i], val)
		}
	}
	return nil
}

func (m *MockRows) Err() error {
	return m.err
}

func (m *MockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("")
}

func (m *MockRows) Values() ([]interface{}, error) {
	if m.pos >= len(m.rows) {
		return nil, nil
	}
	return m.rows[m.pos], nil
}

func (m *MockRows) RawValues() [][]byte {
	return nil
}

func (m *MockRows) Conn() *pgx.Conn {
	return nil
}

// MockRedis represents a mock Redis client.
type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)

	if statusCmd, ok := args.Get(0).(*redis.StatusCmd); ok {
		return statusCmd
	}

	cmd := redis.NewStatusCmd(ctx)
	if err, ok := args.Get(0).(error); ok && err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}

	return cmd
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)

	if stringCmd, ok := args.Get(0).(*redis.StringCmd); ok {
		return stringCmd
	}

	cmd := redis.NewStringCmd(ctx)
	if args.Get(0) != nil {
		if err, ok := args.Get(0).(error); ok {
			cmd.SetErr(err)
		} else if val, ok := args.Get(0).(string); ok && val != "" {
			cmd.SetVal(val)
		}
	} else {
		cmd.SetErr(redis.Nil)
	}

	return cmd
}

func (m *MockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)

	if intCmd, ok := args.Get(0).(*redis.IntCmd); ok {
		return intCmd
	}

	cmd := redis.NewIntCmd(ctx)
	if err, ok := args.Get(0).(error); ok && err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(1)
	}

	return cmd
}

// NoopRedis always misses on Get and accepts every Set and Del, for tests
// that do not care about caching.
type NoopRedis struct{}

func (NoopRedis) Set(ctx context.Context, _ string, _ interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (NoopRedis) Get(ctx context.Context, _ string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	cmd.SetErr(redis.Nil)
	return cmd
}

func (NoopRedis) Del(ctx context.Context, _ ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func NewMockCommandTag(rowsAffected int64) pgconn.CommandTag {
	tag := fmt.Sprintf("DELETE %d", rowsAffected)
	return pgconn.NewCommandTag(tag)
}

// TestToday is the fixed clock every test runs under.
var TestToday = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// Test helper functions.
func CreateTestDependencies(mockDB DBInterface, mockRedis RedisInterface) *Dependens {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := &config.Config{}
	cfg.Redis.StatsCacheTTL = 5 * time.Minute

	return &Dependens{
		DB:     mockDB,
		Redis:  mockRedis,
		Logger: logger,
		Config: cfg,
		Now:    func() time.Time { return TestToday },
	}
}

// Test data helpers.
func CreateTestEmployee() entity.Employee {
	return entity.Employee{
		ID:           1,
		Name:         "John Doe",
		Email:        "john@example.com",
		Department:   "Engineering",
		JoiningDate:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		LeaveBalance: 20,
		CreatedAt:    TestToday,
		UpdatedAt:    TestToday,
	}
}

func EmployeeRow(emp entity.Employee) []interface{} {
	return []interface{}{
		emp.ID,
		emp.Name,
		emp.Email,
		emp.Department,
		emp.JoiningDate,
		emp.LeaveBalance,
		emp.CreatedAt,
		emp.UpdatedAt,
	}
}

func CreateTestLeaveRequest(id uint64, status entity.LeaveStatus, start, end time.Time) entity.LeaveRequest {
	return entity.LeaveRequest{
		ID:         id,
		EmployeeID: 1,
		StartDate:  start,
		EndDate:    end,
		Reason:     "Vacation",
		Status:     status,
		AppliedAt:  TestToday,
	}
}

func LeaveRequestRow(r entity.LeaveRequest) []interface{} {
	return []interface{}{
		r.ID,
		r.EmployeeID,
		r.StartDate,
		r.EndDate,
		r.Reason,
		r.Status,
		r.AppliedAt,
		r.ReviewedBy,
		r.ReviewedAt,
		r.Comments,
	}
}

func StringPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}

func Uint64Ptr(u uint64) *uint64 {
	return &u
}

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
