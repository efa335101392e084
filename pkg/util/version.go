package util

// 构建时通过 -ldflags 注入
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

// GetVersion 返回构建版本信息
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
	}
}
