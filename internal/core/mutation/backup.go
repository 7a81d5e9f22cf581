package mutation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"beersmith-bridge/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TimestampLayout 備份目錄名稱的時間格式
const TimestampLayout = "2006-01-02T15-04-05.000000000"

// ManifestFile 備份目錄中的清單檔
const ManifestFile = "manifest.json"

// Backup 一次備份的內容
type Backup struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Dir       string    `json:"dir"`
	Files     []string  `json:"files"`
	Reason    string    `json:"reason"`
}

// Backuper 寫入前複製完整資料檔
type Backuper interface {
	Backup(files []string, reason string) (*Backup, error)
}

// DirBackuper 備份到 <dir>/<時間戳>/<檔名>
type DirBackuper struct {
	dir string
	now func() time.Time
}

// NewDirBackuper 建立目錄備份
func NewDirBackuper(dir string) *DirBackuper {
	return &DirBackuper{dir: dir, now: time.Now}
}

// Backup 複製檔案並寫入清單；任何一步失敗都回傳錯誤
func (b *DirBackuper) Backup(files []string, reason string) (*Backup, error) {
	ts := b.now()
	bk := &Backup{
		ID:        uuid.New().String(),
		Timestamp: ts,
		Reason:    reason,
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	bk.Dir = filepath.Join(b.dir, ts.Format(TimestampLayout))
	if err := os.Mkdir(bk.Dir, 0o755); err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
		// 同一時間點已有備份
		bk.Dir += "-" + bk.ID[:8]
		if err := os.Mkdir(bk.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
	}

	for _, src := range files {
		name := filepath.Base(src)
		if err := copyFile(src, filepath.Join(bk.Dir, name)); err != nil {
			return nil, fmt.Errorf("copy %s: %w", name, err)
		}
		bk.Files = append(bk.Files, name)
	}

	data, err := common.ToIndentedJSON(bk)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(bk.Dir, ManifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	common.LogInfo("已建立備份",
		zap.String("id", bk.ID),
		zap.String("dir", bk.Dir),
		zap.Strings("files", bk.Files),
		zap.String("reason", reason),
	)
	return bk, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
