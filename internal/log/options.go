package log

import "go.uber.org/zap"

type Option = zap.Option

var (
	String        = zap.String
	Int           = zap.Int
	Bool          = zap.Bool
	Err           = zap.Error
	Strings       = zap.Strings
	Fields        = zap.Fields
	AddCaller     = zap.AddCaller
	AddCallerSkip = zap.AddCallerSkip
	AddStacktrace = zap.AddStacktrace
	Development   = zap.Development
)
