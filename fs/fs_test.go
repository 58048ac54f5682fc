package appfs

import (
	"io/fs"
	"testing"
)

func TestFS_layouts(t *testing.T) {
	tests := []string{
		"templates/pages/_base.gohtml",
		"templates/email/_base.gohtml",
		"templates/email/_base.txt",
		"templates/email/certificate_completed.txt",
		"migrations/00001_create_users.sql",
		"assets/common-passwords.txt.gz",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := fs.Stat(FS, name); err != nil {
				t.Errorf("fs.Stat(%q) error = %v", name, err)
			}
		})
	}
}
