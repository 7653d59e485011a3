package alyvixcheck

import (
	"github.com/ghalamif/AlyvixCheck/internal/adapters/checkmk"
	"github.com/ghalamif/AlyvixCheck/internal/domain"
	"github.com/ghalamif/AlyvixCheck/internal/ports"
)

// Measure is one transaction measurement returned by the Alyvix Server.
type Measure = domain.Measure

// Report is a rendered test case handed to every Sink.
type Report = domain.Report

// StatusCode is the Checkmk severity of a test case or transaction.
type StatusCode = domain.StatusCode

// Style selects the Checkmk output contract.
type Style = checkmk.Style

const (
	StyleLocalCheck        = checkmk.StyleLocalCheck
	StyleDatasourceProgram = checkmk.StyleDatasourceProgram
)

// Source fetches measures (live server, fixture file, or anything else).
type Source = ports.Source

// Sink receives every rendered report.
type Sink = ports.Sink

// Observability emits logs and metrics about each run.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// TransportError names the URL whose request failed.
type TransportError = ports.TransportError

type (
	EmptyInputError        = domain.EmptyInputError
	UnknownStatusCodeError = domain.UnknownStatusCodeError
)

var (
	ErrEmptyInput        = domain.ErrEmptyInput
	ErrUnknownStatusCode = domain.ErrUnknownStatusCode
)
