package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage = "image/"
	MimeVideo = "video/"

	MaxPanelUploadBytes = 20 << 20
)

var (
	VideoExtensions = []string{".mp4", ".webm", ".ogg", ".mov"}
	VideoHosts      = []string{"youtube.com/watch", "youtu.be/", "vimeo.com/", "cloudinary.com"}
)
