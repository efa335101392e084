package config

import (
	"fmt"

	"github.com/pkg/errors"
)

type MySQLConfig struct {
	Host     string   `json:"host" yaml:"host"`
	Port     int      `json:"port" yaml:"port"`
	User     string   `json:"user" yaml:"user"`
	Password string   `json:"password" yaml:"password"`
	Database string   `json:"database" yaml:"database"`
	Replicas []string `json:"replicas" yaml:"replicas"` // 只读副本地址（host:port），为空时只用主库
}

func (m *MySQLConfig) Validate() []error {
	var errs = make([]error, 0)
	if m.Host == "" {
		errs = append(errs, errors.Errorf("MySQL 主机地址不能为空"))
	}
	if m.Port <= 0 || m.Port > 65535 {
		errs = append(errs, errors.Errorf("MySQL 端口不合法: %d", m.Port))
	}
	if m.User == "" {
		errs = append(errs, errors.Errorf("MySQL 用户名不能为空"))
	}
	if m.Database == "" {
		errs = append(errs, errors.Errorf("MySQL 数据库名不能为空"))
	}
	return errs
}

func NewDefaultMySQLConfig() *MySQLConfig {
	return &MySQLConfig{
		Host: "127.0.0.1",
		Port: 3306,
	}
}

func (m *MySQLConfig) DSN() string {
	return m.dsn(fmt.Sprintf("%s:%d", m.Host, m.Port))
}

// ReplicaDSNs 返回所有只读副本的 DSN
func (m *MySQLConfig) ReplicaDSNs() []string {
	dsns := make([]string, 0, len(m.Replicas))
	for _, addr := range m.Replicas {
		dsns = append(dsns, m.dsn(addr))
	}
	return dsns
}

func (m *MySQLConfig) dsn(addr string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.User, m.Password, addr, m.Database)
}
