package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonMaleNames = []string{
	"João", "Pedro", "Miguel", "Tiago", "Rafael", "Bruno", "Carlos", "Diogo", "André", "Justin",
	"Michael", "Lucas", "Gabriel", "Paulo", "Rui", "Nuno", "Hugo", "Daniel", "Marco", "Vasco",
}
var commonFemaleNames = []string{
	"Maria", "Ana", "Sofia", "Beatriz", "Inês", "Carolina", "Mariana", "Joana", "Catarina", "Rita",
	"Leonor", "Matilde", "Clara", "Teresa", "Lúcia", "Helena", "Camila", "Laura", "Isabel", "Marta",
}
var commonSurnames = []string{
	"Silva", "Santos", "Ferreira", "Pereira", "Oliveira", "Costa", "Rodrigues", "Martins", "Sousa", "Fernandes",
	"Gonçalves", "Gomes", "Lopes", "Marques", "Alves", "Almeida", "Ribeiro", "Pinto", "Carvalho", "Teixeira",
}

func GenerateRandomFullName(isMale bool) string {
	if isMale {
		return commonMaleNames[rand.Intn(len(commonMaleNames))] + " " + commonSurnames[rand.Intn(len(commonSurnames))]
	}
	return commonFemaleNames[rand.Intn(len(commonFemaleNames))] + " " + commonSurnames[rand.Intn(len(commonSurnames))]
}

var digits = "0123456789"

// asciiFold 把带变音符号的字母折算成对应的 ASCII 字母，用于生成用户名
var asciiFold = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e", "í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u", "ç", "c",
)

func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(asciiFold.Replace(strings.ToLower(fullName)))
	username := ""

	for _, part := range parts {
		length := rand.Intn(len(part)) + 1
		username += part[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var capacityFactors = []float64{0.5, 0.8, 1.0, 1.0, 1.0}

func GenerateRandomPerson(password string, emailDomainName string) (*domain.Person, error) {
	isMale := rand.Intn(2) == 0
	fullName := GenerateRandomFullName(isMale)
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	person := &domain.Person{
		Username:         username,
		PasswordHash:     string(passwordHash),
		FullName:         fullName,
		Email:            username + "@" + emailDomainName,
		Role:             domain.RoleDutyMember,
		IsMale:           isMale,
		SpeaksPortuguese: rand.Intn(3) > 0,
		CapacityFactor:   capacityFactors[rand.Intn(len(capacityFactors))],
	}

	return person, nil
}

// GenerateRandomUnavailablePeriods 在 [from, to] 之间生成若干段互不重叠的不可用时间段
func GenerateRandomUnavailablePeriods(from time.Time, to time.Time) []domain.UnavailablePeriod {
	periods := make([]domain.UnavailablePeriod, 0)
	totalDays := int(to.Sub(from).Hours() / 24)
	if totalDays <= 0 {
		return periods
	}

	cursor := 0
	for i := 0; i < rand.Intn(3); i++ {
		start := cursor + rand.Intn(totalDays-cursor+1)
		length := rand.Intn(4)
		end := start + length
		if end > totalDays {
			end = totalDays
		}

		startDate := from.AddDate(0, 0, start)
		endDate := from.AddDate(0, 0, end)
		periods = append(periods, domain.UnavailablePeriod{Start: &startDate, End: &endDate})

		cursor = end + 2
		if cursor > totalDays {
			break
		}
	}

	return periods
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// GenerateRandomRosterPlan 随机生成一个排班计划，值班日期从 from 开始，
// 每天都有一定概率被选中，直到凑够 days 个值班日
func GenerateRandomRosterPlan(from time.Time, days int) *domain.RosterPlan {
	plan := &domain.RosterPlan{
		Name:         "排班计划" + GenerateRandomID(3, 3),
		Description:  "排班计划描述" + GenerateRandomID(20, 10),
		PeopleNeeded: 2,
		MinRestDays:  1,
		TimeLimit:    60,
	}

	day := domain.DateOf(from)
	for len(plan.DutyDates) < days {
		if rand.Intn(3) > 0 {
			plan.DutyDates = append(plan.DutyDates, day)
		}
		day = day.AddDate(0, 0, 1)
	}

	return plan
}
