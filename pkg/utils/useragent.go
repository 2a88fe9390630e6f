package utils

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownAgent = "Unknown"

// ParseUserAgent 解析浏览器与操作系统名称
func ParseUserAgent(ua string) (browser, osName string) {
	u := useragent.New(ua)

	browser, _ = u.Browser()
	if browser == "" {
		browser = unknownAgent
	}

	info := u.OSInfo()
	osName = info.Name
	// Windows 的版本号是发行名，如 Windows 10
	if osName == "Windows" && info.Version != "" {
		osName += " " + info.Version
	}
	if osName == "" {
		osName = unknownAgent
	}
	return browser, osName
}

// LoginLocation 内网地址显示为内网IP，其余不做地址库查询
func LoginLocation(ip string) string {
	if ip == "" {
		return "未知"
	}
	if ip == "::1" || strings.HasPrefix(ip, "127.") || strings.HasPrefix(ip, "10.") ||
		strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "172.16.") {
		return "内网IP"
	}
	return "未知"
}
