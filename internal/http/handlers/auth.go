package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/domain"
	"campusshuttle/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the user payload returned on login/register.
type AuthUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	StudentID string `json:"studentId,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	err := intconfig.DB.QueryRow(
		`SELECT id, name, email, password_hash, role FROM users WHERE email = ? AND is_active = 1`,
		strings.TrimSpace(strings.ToLower(req.Email)),
	).Scan(&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		RespondError(c, http.StatusUnauthorized, "email or password is incorrect", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to query user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "email or password is incorrect", nil)
		return
	}

	if user.Role == domain.RoleStudent {
		if student, err := (repositories.StudentRepository{}).GetByUserID(user.ID); err == nil {
			user.StudentID = student.ID
		}
	}

	tokenString, err := signToken(user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString, "user": user})
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	StudentCode string `json:"studentId"`
}

// POST /api/auth/register creates a user plus its student profile in one
// transaction.
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.StudentCode = strings.TrimSpace(req.StudentCode)
	if req.Email == "" || req.Name == "" || req.StudentCode == "" || len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "name, email, studentId and a password of 8+ characters are required", nil)
		return
	}

	var exists int
	if err := intconfig.DB.QueryRow(
		`SELECT COUNT(*) FROM users WHERE email = ?`, req.Email,
	).Scan(&exists); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to check user", err)
		return
	}
	if exists > 0 {
		RespondError(c, http.StatusBadRequest, "email is already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	userID := uuid.NewString()
	studentID := uuid.NewString()

	tx, err := intconfig.DB.Begin()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to start transaction", err)
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO users (id, email, password_hash, name, role) VALUES (?,?,?,?,?)`,
		userID, req.Email, string(hash), req.Name, domain.RoleStudent,
	); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}
	if _, err := tx.Exec(
		`INSERT INTO students (id, user_id, student_code, wallet_balance) VALUES (?,?,?,0)`,
		studentID, userID, req.StudentCode,
	); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create student profile", err)
		return
	}
	if err := tx.Commit(); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to commit registration", err)
		return
	}

	user := AuthUser{ID: userID, Name: req.Name, Email: req.Email, Role: domain.RoleStudent, StudentID: studentID}
	tokenString, err := signToken(user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": tokenString, "user": user})
}

func signToken(user AuthUser) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	if user.StudentID != "" {
		claims["student_id"] = user.StudentID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
