package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned when the client has no usable connection.
	ErrNotReady = errors.New("client is not connected")

	// ErrNoQuery is returned when a statement translates to nothing.
	ErrNoQuery = errors.New("no query to run")
)

// BailKind classifies a fatal setup failure.
type BailKind string

const (
	BailEnvironment BailKind = "environment"
	BailConnection  BailKind = "connection"
	BailSelection   BailKind = "selection"
)

// BailError is a fatal setup failure carrying a Markdown diagnostic page.
type BailError struct {
	Kind     BailKind
	Markdown string
	Cause    error
}

// Error implements the error interface.
func (e *BailError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Cause)
	}
	return string(e.Kind) + " error"
}

// Unwrap returns the underlying error.
func (e *BailError) Unwrap() error {
	return e.Cause
}

// QueryError is returned when the backend rejects a statement.
type QueryError struct {
	Query   string
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %s : %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

const environmentPage = `# Driver Not Loaded

The database driver **%s** is not registered with this program.

* Build with the driver imported.
* Registered drivers: %s
`

const connectionPage = `# Error establishing a database connection

This either means that the username and password information is incorrect or we can't contact the database server at ` + "`%s`" + `. This could mean the database server is down.

* Are you sure you have the correct username and password?
* Are you sure that you have typed the correct hostname?
* Are you sure that the database server is running?
`

const selectionPage = `# Can't select database

We were able to connect to the database server (which means your username and password is okay) but not able to select the ` + "`%[1]s`" + ` database.

* Are you sure it exists?
* Does the user ` + "`%[2]s`" + ` have permission to use the ` + "`%[1]s`" + ` database?
* On some systems the name of your database is prefixed with your username, so it would be like ` + "`username_%[1]s`" + `. Could that be the problem?
`
