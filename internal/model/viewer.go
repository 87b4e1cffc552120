package model

// Viewer 是一次请求的调用方身份，由中间件从 token 中解析后显式传入服务层。
// UserID 为 0 表示匿名访问。
type Viewer struct {
	UserID  uint
	IsAdmin bool
}

func (v Viewer) Known() bool {
	return v.UserID != 0
}

func Anonymous() Viewer {
	return Viewer{}
}
