package utils

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImage 按扩展名判断是否为图片
func IsImage(filename string) bool {
	return imageExts[strings.ToLower(filepath.Ext(filename))]
}

// Uploader 按日期分目录保存上传文件，返回可访问的 URL 路径
type Uploader struct {
	root    string
	prefix  string
	machine string
	now     func() time.Time
}

func NewUploader(root, prefix, machine string) *Uploader {
	return &Uploader{root: root, prefix: prefix, machine: machine, now: time.Now}
}

// Root 上传根目录
func (u *Uploader) Root() string {
	return u.root
}

// Prefix 对外访问前缀
func (u *Uploader) Prefix() string {
	return u.prefix
}

// SaveAvatar 保存头像到 <root>/<kind>/YYYY/MM/DD/avatar_<时间戳><机器码><随机串>.png
func (u *Uploader) SaveAvatar(kind string, r io.Reader) (string, error) {
	now := u.now()
	rel := path.Join(kind, now.Format("2006"), now.Format("01"), now.Format("02"))
	name := fmt.Sprintf("avatar_%s%s%s.png", now.Format("20060102150405"), u.machine, uuid.NewString()[:8])

	dir := filepath.Join(u.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path.Join("/", u.prefix, rel, name), nil
}
