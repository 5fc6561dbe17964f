package config

import "github.com/ceyewan/govlink/xerrors"

var (
	// ErrValidationFailed 配置验证失败
	ErrValidationFailed = xerrors.New("config: validation failed")

	// ErrNotLoaded 尚未调用 Load
	ErrNotLoaded = xerrors.New("config: not loaded")
)
