package govapi

import "github.com/ceyewan/govlink/xerrors"

var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("govapi: config is nil")

	// ErrBaseURLEmpty BaseURL 未配置
	ErrBaseURLEmpty = xerrors.New("govapi: base url is empty")

	// ErrClientClosed 客户端已关闭
	ErrClientClosed = xerrors.New("govapi: client is closed")
)
