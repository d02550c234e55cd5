package server

// ViewerID 表示观众唯一标识
type ViewerID string

// Viewer 订阅某场比赛的观众
type Viewer struct {
	ID     ViewerID
	Format Format // 订阅的编码格式

	Conn *ClientConn // 网络连接的发送端（写协程）
}

// ViewerInfo 管理接口中展示的观众信息
type ViewerInfo struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}
