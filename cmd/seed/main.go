package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机人员, 2: 插入随机排班计划, 3: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的人员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				person, err := utils.GenerateRandomPerson(cfg.Seed.Person.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机人员", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreatePerson(person); err != nil {
					slog.Error("无法插入人员", slog.String("error", err.Error()))
					continue
				}

				// 随机生成这个人未来一个月内的不可用时间段
				periods := utils.GenerateRandomUnavailablePeriods(time.Now(), time.Now().AddDate(0, 1, 0))
				if err := repo.ReplaceUnavailablePeriods(person.ID, periods); err != nil {
					slog.Error("无法插入不可用时间段", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入人员成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的排班计划数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				plan := utils.GenerateRandomRosterPlan(time.Now().AddDate(0, 0, 7), 14)
				if err := repo.CreateRosterPlan(plan); err != nil {
					slog.Error("无法插入排班计划", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入排班计划成功", slog.Int("count", n-cnt))
		}
	case 3:
		seed.SeedDemoData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
