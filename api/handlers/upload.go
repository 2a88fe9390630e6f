package handlers

import (
	"github.com/BinLe1988/member-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// avatarField 头像上传的表单字段名
const avatarField = "avatarfile"

// saveAvatar 保存表单中的头像文件，失败时已写入响应
func saveAvatar(c *gin.Context, uploader *utils.Uploader, logger *zap.Logger, kind string) (string, bool) {
	fh, err := c.FormFile(avatarField)
	if err != nil {
		Warning(c, "请选择要上传的图片")
		return "", false
	}
	if !utils.IsImage(fh.Filename) {
		Warning(c, "文件格式不正确，请上传图片类型文件")
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		HandleError(c, logger, err)
		return "", false
	}
	defer f.Close()

	url, err := uploader.SaveAvatar(kind, f)
	if err != nil {
		HandleError(c, logger, err)
		return "", false
	}
	return url, true
}
