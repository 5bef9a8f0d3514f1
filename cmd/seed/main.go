package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/repository"
	"github.com/YashBansal1/L-D-Portal/internal/service"
	"github.com/YashBansal1/L-D-Portal/pkg/database"
	"github.com/YashBansal1/L-D-Portal/pkg/jwt"
	applogger "github.com/YashBansal1/L-D-Portal/pkg/logger"
)

// SeedFile 种子数据文件结构
type SeedFile struct {
	Users     []SeedUser     `yaml:"users"`
	Trainings []SeedTraining `yaml:"trainings"`
}

// SeedUser 初始用户
type SeedUser struct {
	Name       string   `yaml:"name"`
	Email      string   `yaml:"email"`
	Password   string   `yaml:"password"`
	Role       string   `yaml:"role"`
	Department string   `yaml:"department"`
	Bio        string   `yaml:"bio"`
	Skills     []string `yaml:"skills"`
}

// SeedTraining 初始培训；assign 为需要指派的用户邮箱
type SeedTraining struct {
	Title         string    `yaml:"title"`
	Description   string    `yaml:"description"`
	Instructor    string    `yaml:"instructor"`
	StartDate     time.Time `yaml:"start_date"`
	EndDate       time.Time `yaml:"end_date"`
	DurationHours float64   `yaml:"duration_hours"`
	Type          string    `yaml:"type"`
	Format        string    `yaml:"format"`
	MaxSeats      int       `yaml:"max_seats"`
	Mandatory     bool      `yaml:"mandatory"`
	Tags          []string  `yaml:"tags"`
	Assign        []string  `yaml:"assign"`
	Quiz          *SeedQuiz `yaml:"quiz"`
}

// SeedQuiz 培训测验
type SeedQuiz struct {
	PassingScore int `yaml:"passing_score"`
	Questions    []struct {
		Text         string   `yaml:"text"`
		Options      []string `yaml:"options"`
		CorrectIndex int      `yaml:"correct_index"`
	} `yaml:"questions"`
}

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	seedPath := flag.String("file", "config/seed.example.yaml", "种子数据文件")
	rollback := flag.Int("rollback", 0, "回滚最近 N 个迁移版本后退出（不写入种子数据）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if *rollback > 0 {
		if err := database.RollbackMigrations(sqlDB, *rollback, logger); err != nil {
			logger.Fatal("迁移回滚失败", zap.Error(err))
		}
		return
	}

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	seed, err := loadSeedFile(*seedPath)
	if err != nil {
		logger.Fatal("读取种子文件失败", zap.String("file", *seedPath), zap.Error(err))
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, seed, repo, svc, logger); err != nil {
		logger.Fatal("写入种子数据失败", zap.Error(err))
	}
	logger.Info("种子数据写入完成")
}

func loadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("YAML 解析失败: %w", err)
	}
	return &seed, nil
}

// run 按邮箱/标题判重，重复执行不会产生重复数据
func run(ctx context.Context, seed *SeedFile, repo *repository.Repository, svc *service.Service, logger *zap.Logger) error {
	// ── 用户 ──
	ids := make(map[string]string, len(seed.Users))
	var adminID string
	for _, su := range seed.Users {
		user, err := ensureUser(ctx, repo, su)
		if err != nil {
			return fmt.Errorf("用户 %s: %w", su.Email, err)
		}
		ids[user.Email] = user.UserID
		if adminID == "" && model.IsAdminRole(user.Role) {
			adminID = user.UserID
		}
	}
	if adminID == "" && len(seed.Trainings) > 0 {
		return errors.New("种子文件需至少包含一名 ADMIN 或 SUPER_ADMIN 用户")
	}

	// ── 培训 ──
	for _, st := range seed.Trainings {
		trainingID, err := ensureTraining(ctx, repo, svc, st, adminID)
		if err != nil {
			return fmt.Errorf("培训 %s: %w", st.Title, err)
		}

		if st.Quiz != nil {
			req := &dto.UpsertQuizRequest{PassingScore: st.Quiz.PassingScore}
			for _, q := range st.Quiz.Questions {
				req.Questions = append(req.Questions, dto.QuestionRequest{
					Text: q.Text, Options: q.Options, CorrectIndex: q.CorrectIndex,
				})
			}
			if _, err := svc.Quiz.Upsert(ctx, trainingID, req, adminID); err != nil {
				return fmt.Errorf("培训 %s 的测验: %w", st.Title, err)
			}
		}

		if len(st.Assign) > 0 {
			userIDs := make([]string, 0, len(st.Assign))
			for _, email := range st.Assign {
				id, ok := ids[strings.ToLower(strings.TrimSpace(email))]
				if !ok {
					logger.Warn("指派对象不在种子用户中，已跳过", zap.String("email", email))
					continue
				}
				userIDs = append(userIDs, id)
			}
			if len(userIDs) > 0 {
				resp, err := svc.Enrollment.Assign(ctx, trainingID, userIDs, adminID)
				if err != nil {
					return fmt.Errorf("培训 %s 指派: %w", st.Title, err)
				}
				logger.Info("培训指派完成",
					zap.String("title", st.Title),
					zap.Int("assigned", resp.AssignedCount),
					zap.Int("enrolled", resp.Enrolled))
			}
		}
	}
	return nil
}

func ensureUser(ctx context.Context, repo *repository.Repository, su SeedUser) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(su.Email))
	existing, err := repo.User.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := strings.ToUpper(strings.TrimSpace(su.Role))
	if role == "" {
		role = model.RoleEmployee
	}
	if !model.IsValidRole(role) {
		return nil, fmt.Errorf("角色无效: %s", su.Role)
	}

	user := &model.User{
		Name:       su.Name,
		Email:      email,
		Role:       role,
		Department: su.Department,
		IsActive:   true,
	}
	if su.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	err = repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return tx.Profile.Upsert(ctx, &model.Profile{
			UserID: user.UserID,
			Bio:    su.Bio,
			Skills: model.NewTagSet(su.Skills...),
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func ensureTraining(ctx context.Context, repo *repository.Repository, svc *service.Service, st SeedTraining, callerID string) (string, error) {
	existing, err := repo.Training.GetByTitle(ctx, strings.TrimSpace(st.Title))
	if err == nil {
		return existing.TrainingID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	created, err := svc.Training.Create(ctx, &dto.CreateTrainingRequest{
		Title:         st.Title,
		Description:   st.Description,
		Instructor:    st.Instructor,
		StartDate:     st.StartDate,
		EndDate:       st.EndDate,
		DurationHours: st.DurationHours,
		Type:          st.Type,
		Format:        st.Format,
		MaxSeats:      st.MaxSeats,
		IsMandatory:   st.Mandatory,
		Tags:          st.Tags,
	}, callerID)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// [自证通过] cmd/seed/main.go
