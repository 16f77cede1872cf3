package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt 参数与历史数据一致（N=16384, r=8, p=1, 64 字节密钥）
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// HashPassword 生成 "hex(hash).hex(salt)" 格式的口令哈希。
// salt 以 hex 字符串形式参与派生，保持与既有存量哈希兼容。
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hex.EncodeToString(key) + "." + saltHex, nil
}

// ComparePasswords 常数时间比较
func ComparePasswords(supplied, stored string) bool {
	parts := strings.SplitN(stored, ".", 2)
	if len(parts) != 2 {
		return false
	}
	hashed, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	key, err := scrypt.Key([]byte(supplied), []byte(parts[1]), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hashed, key) == 1
}
