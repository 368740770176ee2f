package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"campusshuttle/internal/http/middleware"
	"campusshuttle/internal/repositories"
	"campusshuttle/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GET /api/student/wallet — cached balance plus recent ledger rows.
func GetStudentWallet(c *gin.Context) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok || rc.StudentID == "" {
		RespondError(c, http.StatusUnauthorized, "student context required", nil)
		return
	}
	student, txs, err := (services.WalletService{}).Statement(rc.StudentID, 100)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"walletBalance": student.WalletBalance,
		"transactions":  txs,
	})
}

type allocateRequest struct {
	StudentCode string          `json:"studentCode"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	ProcessedBy string          `json:"processedBy"`
}

// POST /api/admin/wallets/allocate — ledger insert plus balance update in
// one transaction. The reference is an idempotency key: replays do not
// double-apply.
func AllocateWallet(c *gin.Context) {
	var req allocateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	rc, _ := middleware.GetRequestContext(c)
	processedBy := req.ProcessedBy
	if processedBy == "" {
		processedBy = rc.UserID
	}

	newBalance, err := (services.WalletService{}).Allocate(c.Request.Context(), services.AllocationInput{
		StudentCode: strings.TrimSpace(req.StudentCode),
		Type:        req.Type,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Reference:   strings.TrimSpace(req.Reference),
		ProcessedBy: processedBy,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "newBalance": newBalance})
}

// GET /api/admin/wallets/:studentId/reconcile — cached balance vs ledger.
func ReconcileWallet(c *gin.Context) {
	result, err := (services.WalletService{}).Reconcile(c.Param("studentId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type rechargeConfirmRequest struct {
	StudentCode string          `json:"studentCode"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentID   string          `json:"paymentId"`
	OrderID     string          `json:"orderId"`
	Signature   string          `json:"signature"`
}

// POST /api/payments/recharge/confirm — gateway callback after a wallet
// recharge. The signature is HMAC-SHA256 over "orderId|paymentId"; the
// payment id doubles as the idempotency key, so gateway retries credit at
// most once.
func ConfirmRecharge(c *gin.Context) {
	var req rechargeConfirmRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.PaymentID == "" || req.OrderID == "" {
		RespondError(c, http.StatusBadRequest, "paymentId and orderId are required", nil)
		return
	}
	if !verifyGatewaySignature(req.OrderID, req.PaymentID, req.Signature) {
		RespondError(c, http.StatusUnauthorized, "invalid payment signature", nil)
		return
	}

	newBalance, err := (services.WalletService{}).Allocate(c.Request.Context(), services.AllocationInput{
		StudentCode: strings.TrimSpace(req.StudentCode),
		Type:        "credit",
		Amount:      req.Amount,
		Description: "Wallet recharge " + req.PaymentID,
		Reference:   req.PaymentID,
		ProcessedBy: "payment-gateway",
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "newBalance": newBalance})
}

func verifyGatewaySignature(orderID, paymentID, signature string) bool {
	if len(gatewaySecret) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, gatewaySecret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// GET /api/admin/students — roster with cached balances.
func GetStudents(c *gin.Context) {
	students, err := (repositories.StudentRepository{}).List()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list students", err)
		return
	}
	c.JSON(http.StatusOK, students)
}
