package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// PendingFile 一个待摄入的原始快照文件
type PendingFile struct {
	Path    string
	ModTime time.Time
}

// PendingFiles 列出目录下指定前缀的待处理文件，按修改时间升序（最老的先处理，
// 晚到的文件可能依赖早先文件建出的身份）。目录不存在视为无待处理文件。
func PendingFiles(dir, prefix string) ([]PendingFile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取目录%s失败: %w", dir, err)
	}

	var files []PendingFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("读取文件信息失败: %w", err)
		}
		files = append(files, PendingFile{
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Path < files[j].Path
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// ArchiveFile 把已完整提交的文件挪进备份目录（摄入失败的文件留在原地重试）
func ArchiveFile(path, backupRoot, store string) error {
	dir := filepath.Join(backupRoot, store)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建备份目录失败: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("移动文件到备份目录失败: %w", err)
	}
	return nil
}
