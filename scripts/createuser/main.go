package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cruxlog/internal/config"
	"github.com/cruxlog/internal/db"
)

// 管理员初始化脚本，可重复执行
func main() {
	username := flag.String("username", "admin", "管理员用户名")
	password := flag.String("password", "", "管理员密码，必填")
	flag.Parse()

	if *password == "" {
		log.Fatal("必须通过 -password 指定密码")
	}

	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if err := db.EnsureStaffUser(*username, *password); err != nil {
		log.Fatal("创建管理员失败:", err)
	}

	fmt.Println("管理员已就绪:", *username)
}
