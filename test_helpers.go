package main

import (
	"context"
	"database/sql"
	"fmt"
)

// MockDatabaseManager is a mock implementation of DatabaseManager for testing
type MockDatabaseManager struct {
	SetupFunc      func(ctx context.Context) error
	CloseFunc      func(ctx context.Context) error
	ExecScriptFunc func(ctx context.Context, script string) error
	GetDBFunc      func() *sql.DB

	// Track calls for verification
	SetupCalled      bool
	CloseCalled      bool
	ExecScriptCalled bool
	GetDBCalled      bool
}

func (m *MockDatabaseManager) Setup(ctx context.Context) error {
	m.SetupCalled = true
	if m.SetupFunc != nil {
		return m.SetupFunc(ctx)
	}
	return nil
}

func (m *MockDatabaseManager) Close(ctx context.Context) error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

func (m *MockDatabaseManager) ExecScript(ctx context.Context, script string) error {
	m.ExecScriptCalled = true
	if m.ExecScriptFunc != nil {
		return m.ExecScriptFunc(ctx, script)
	}
	return nil
}

func (m *MockDatabaseManager) GetDB() *sql.DB {
	m.GetDBCalled = true
	if m.GetDBFunc != nil {
		return m.GetDBFunc()
	}
	return nil
}

func (m *MockDatabaseManager) GetConnectionString() string {
	return "test://connection"
}

// MockScriptReader is a mock implementation of ScriptReader for testing
type MockScriptReader struct {
	ReadScriptFunc func(path string) (string, error)
}

func (m *MockScriptReader) ReadScript(path string) (string, error) {
	if m.ReadScriptFunc != nil {
		return m.ReadScriptFunc(path)
	}
	return "", nil
}

// staticScript returns a reader handing out script for every path
func staticScript(script string) *MockScriptReader {
	return &MockScriptReader{
		ReadScriptFunc: func(path string) (string, error) {
			return script, nil
		},
	}
}

// SimulateError simulates various database errors for testing
func SimulateError(errType string) error {
	switch errType {
	case "connection":
		return fmt.Errorf("connection refused")
	case "syntax":
		return fmt.Errorf("syntax error at or near 'INVALID'")
	case "permission":
		return fmt.Errorf("permission denied")
	default:
		return fmt.Errorf("simulated error: %s", errType)
	}
}
