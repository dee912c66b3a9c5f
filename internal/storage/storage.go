package storage

import (
	"context"
	"io"
)

// Reader 定义对象存储读接口，支持流式读取。服务端下载端点只依赖它。
type Reader interface {
	Read(ctx context.Context, key string) (io.ReadCloser, error)
}

// Writer 定义对象存储写接口，供数据准备工具写入示例内容。
type Writer interface {
	Write(ctx context.Context, key string, r io.Reader) (Location, error)
}

// Storage 组合了读写能力的完整存储接口。
type Storage interface {
	Reader
	Writer
}

// Location 描述已经写入对象的可访问信息。
type Location struct {
	Path string
	URL  string
}
