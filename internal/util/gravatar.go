package util

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL 根据邮箱生成 Gravatar 头像地址，作为用户注册时的默认头像快照
func GravatarURL(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mm&r=pg", hash, size)
}
