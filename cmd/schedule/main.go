package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/scheduler"
)

// databaseFile 离线排班所用的 JSON 数据库格式
type databaseFile struct {
	People []struct {
		ID               int64   `json:"id"`
		Name             string  `json:"name"`
		Male             bool    `json:"male"`
		FluentPortuguese bool    `json:"fluentPortuguese"`
		CapacityFactor   float64 `json:"capacityFactor"`
		Unavailable      []struct {
			Start *string `json:"start"`
			End   *string `json:"end"`
		} `json:"unavailable"`
	} `json:"people"`
	DutyDates []string `json:"dutyDates"`
}

func main() {
	var databasePath string
	var minRestDays int
	var peopleNeeded int
	var timeLimit int

	flag.StringVar(&databasePath, "database", "database.json", "JSON 数据库文件路径")
	flag.IntVar(&minRestDays, "min-rest-days", 1, "两次值班之间至少间隔的天数")
	flag.IntVar(&peopleNeeded, "people-needed", 2, "每个值班日需要的人数")
	flag.IntVar(&timeLimit, "time-limit", 60, "求解时间限制（秒）")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if peopleNeeded < 1 {
		logger.Error("每个值班日至少需要一个人", "people-needed", peopleNeeded)
		os.Exit(1)
	}

	// 读取 JSON 数据库
	raw, err := os.ReadFile(databasePath)
	if err != nil {
		logger.Error("无法读取数据库文件", "path", databasePath, "error", err)
		os.Exit(1)
	}

	var db databaseFile
	if err := json.Unmarshal(raw, &db); err != nil {
		logger.Error("无法解析数据库文件", "path", databasePath, "error", err)
		os.Exit(1)
	}

	// 将数据库记录转换为领域对象
	people := make([]*domain.Person, 0, len(db.People))
	for _, p := range db.People {
		person := &domain.Person{
			ID:               p.ID,
			FullName:         p.Name,
			IsMale:           p.Male,
			SpeaksPortuguese: p.FluentPortuguese,
			CapacityFactor:   p.CapacityFactor,
		}
		if person.CapacityFactor == 0 {
			person.CapacityFactor = 1.0
		}

		for _, u := range p.Unavailable {
			var period domain.UnavailablePeriod
			if u.Start != nil {
				start, err := scheduler.ParseDate(*u.Start)
				if err != nil {
					logger.Error("无法解析不可用时间段", "person", p.Name, "error", err)
					os.Exit(1)
				}
				period.Start = &start
			}
			if u.End != nil {
				end, err := scheduler.ParseDate(*u.End)
				if err != nil {
					logger.Error("无法解析不可用时间段", "person", p.Name, "error", err)
					os.Exit(1)
				}
				period.End = &end
			}
			person.UnavailablePeriods = append(person.UnavailablePeriods, period)
		}

		people = append(people, person)
	}

	dutyDates := make([]time.Time, 0, len(db.DutyDates))
	for _, s := range db.DutyDates {
		date, err := scheduler.ParseDate(s)
		if err != nil {
			logger.Error("无法解析值班日期", "date", s, "error", err)
			os.Exit(1)
		}
		dutyDates = append(dutyDates, date)
	}

	// 构建排班器
	parameters := &scheduler.Parameters{
		PeopleNeeded: peopleNeeded,
		MinRestDays:  minRestDays,
		TimeLimit:    time.Duration(timeLimit) * time.Second,
	}

	s, err := scheduler.New(parameters, people, dutyDates, scheduler.NewGLPKSolver())
	if err != nil {
		logger.Error("无法构建排班器", "error", err)
		os.Exit(1)
	}

	// 打印模型概况和每个人在每个值班日的可用性
	fmt.Println("=== 排班模型概况 ===")
	fmt.Printf("人数: %d\n", len(people))
	fmt.Printf("值班日数: %d\n", len(dutyDates))
	fmt.Printf("每日所需人数: %d\n", peopleNeeded)
	fmt.Printf("最小间隔天数: %d\n", minRestDays)

	fmt.Println("\n可用性:")
	fmt.Println("姓名                 | 可用值班日")
	fmt.Println("---------------------+-----------")
	for _, person := range people {
		available := 0
		for _, date := range dutyDates {
			if person.IsAvailableOn(date) {
				available++
			}
		}
		fmt.Printf("%-20s | %d/%d\n", person.FullName, available, len(dutyDates))
	}

	// 求解
	fmt.Println("\n=== 求解 ===")
	res, err := s.Schedule(context.Background())
	if err != nil {
		logger.Error("排班失败", "error", err)
		os.Exit(1)
	}

	fmt.Printf("求解状态: %s\n", res.Status)
	if res.Status != scheduler.StatusOptimal {
		fmt.Println("没有找到最优解")
		os.Exit(1)
	}

	fmt.Printf("目标函数值: %.4f\n", res.Objective)

	fmt.Println("\n=== 排班表 ===")
	peopleByID := make(map[int64]*domain.Person, len(people))
	for _, person := range people {
		peopleByID[person.ID] = person
	}
	for _, entry := range res.Entries {
		fmt.Printf("%s:", entry.Date.Format("2006-01-02"))
		for _, personID := range entry.PersonIDs {
			fmt.Printf(" %s", peopleByID[personID].FullName)
		}
		fmt.Println()
	}

	fmt.Println("\n=== 公平性 ===")
	fmt.Println("姓名                 | 值班次数 | 可用天数 | 期望次数 | 正偏差  | 负偏差")
	fmt.Println("---------------------+----------+----------+----------+---------+--------")
	for _, f := range res.Fairness {
		fmt.Printf("%-20s | %8d | %8d | %8.4f | %7.4f | %7.4f\n",
			f.FullName, f.AssignedCount, f.AvailableDays, f.FairShare, f.PositiveDeviation, f.NegativeDeviation)
	}
}
