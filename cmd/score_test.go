package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 失败路径必须让 Execute 返回错误，进程才能以非零状态退出

func TestScoreCommandBadConfigFails(t *testing.T) {
	cmd := NewScoreCommand()
	cmd.SetArgs([]string{"--api-url", "::not a url::"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "打分接口地址不合法")
}

func TestProbeCommandBadConfigFails(t *testing.T) {
	cmd := NewProbeCommand()
	cmd.SetArgs([]string{"--api-url", "::not a url::"})
	require.Error(t, cmd.Execute())
}

func TestScoreCommandMissingInputFails(t *testing.T) {
	// 这个用例会注册信号处理（每个进程只能注册一次），其他用例要在注册前失败
	cmd := NewScoreCommand()
	cmd.SetArgs([]string{
		"--input", filepath.Join(t.TempDir(), "nope.parquet"),
		"--output", filepath.Join(t.TempDir(), "out.parquet"),
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不存在")
}
