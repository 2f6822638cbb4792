package common

import (
	"os"

	"github.com/bwmarrin/snowflake"
)

var idNode *snowflake.Node

func init() {
	var err error
	idNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a time-ordered unique int64 identifier.
func UUIDint64() int64 {
	return idNode.Generate().Int64()
}

// FileExists reports whether path exists on the filesystem.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
