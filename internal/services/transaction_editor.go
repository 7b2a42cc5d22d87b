package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"receipt-dashboard/internal/backend"
	"receipt-dashboard/internal/dto"
	apperrors "receipt-dashboard/internal/errors"
	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/validation"
)

var (
	ErrSplitMismatch = errors.New("split amounts do not add up to the original amount")
	ErrEmptyReceipt  = errors.New("receipt file is empty")
)

// ValidationError carries per-field messages. Nothing is sent to the backend
// when it is returned.
type ValidationError struct {
	Code   apperrors.ErrorCode
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", apperrors.GetErrorMessage(e.Code), strings.Join(parts, "; "))
}

// TransactionEditor validates and submits edits, splits, duplicates and
// receipt uploads. Uploads that fail because the backend is unreachable are
// handed to the offline worker for background sync.
type TransactionEditor struct {
	api       TransactionAPI
	queuer    MutationQueuer
	notifier  Notifier
	metrics   MetricsRecorderInterface
	validator *validation.Validator
	syncTag   string
	logger    *slog.Logger
}

func NewTransactionEditor(api TransactionAPI, queuer MutationQueuer, notifier Notifier, metrics MetricsRecorderInterface, syncTag string) *TransactionEditor {
	return &TransactionEditor{
		api:       api,
		queuer:    queuer,
		notifier:  notifier,
		metrics:   metrics,
		validator: validation.GetValidator(),
		syncTag:   syncTag,
		logger:    slog.Default(),
	}
}

// Update saves the edited fields of a transaction
func (e *TransactionEditor) Update(ctx context.Context, id string, req dto.UpdateTransactionRequest) error {
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if err := e.validate(req); err != nil {
		return err
	}

	if err := e.api.UpdateTransaction(ctx, id, req); err != nil {
		e.fail(ctx, "update", apperrors.TransactionUpdateFailed, err)
		return err
	}

	e.succeed("update", "Transaction updated")
	return nil
}

// Split replaces original with the given parts. The parts must add up to the
// original's absolute amount.
func (e *TransactionEditor) Split(ctx context.Context, original models.Transaction, lines []dto.SplitLine) error {
	req := dto.SplitTransactionRequest{
		OriginalTransactionID: original.ID,
		Splits:                lines,
	}
	if err := e.validate(req); err != nil {
		return err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount.Decimal)
	}
	if !total.Equal(original.DisplayAmount()) {
		return &ValidationError{
			Code: apperrors.ValidationSplitMismatch,
			Fields: map[string]string{
				"splits": fmt.Sprintf("total %s does not match %s", total.StringFixed(2), original.DisplayAmount().StringFixed(2)),
			},
		}
	}

	if err := e.api.SplitTransaction(ctx, req); err != nil {
		e.fail(ctx, "split", apperrors.TransactionUpdateFailed, err)
		return err
	}

	e.succeed("split", fmt.Sprintf("Transaction split into %d parts", len(lines)))
	return nil
}

func (e *TransactionEditor) Duplicate(ctx context.Context, id string) error {
	if err := e.api.DuplicateTransaction(ctx, id); err != nil {
		e.fail(ctx, "duplicate", apperrors.TransactionUpdateFailed, err)
		return err
	}

	e.succeed("duplicate", "Transaction duplicated")
	return nil
}

// UploadReceipt sends the receipt. When the backend cannot be reached the
// upload is queued and queued=true is returned with a nil error.
func (e *TransactionEditor) UploadReceipt(ctx context.Context, transactionID, filename string, content []byte) (queued bool, err error) {
	if len(content) == 0 {
		return false, ErrEmptyReceipt
	}

	req, err := backend.NewReceiptUpload(transactionID, filename, content)
	if err != nil {
		return false, err
	}

	sendErr := e.api.Send(ctx, req)
	if sendErr == nil {
		e.succeed("upload", "Receipt uploaded")
		return false, nil
	}

	if !isUnreachable(sendErr) || e.queuer == nil {
		e.fail(ctx, "upload", apperrors.TransactionUploadFailed, sendErr)
		return false, sendErr
	}

	if err := e.queuer.QueueMutation(ctx, e.syncTag, *req); err != nil {
		e.logger.ErrorContext(ctx, "failed to queue receipt upload",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()),
		)
		e.fail(ctx, "upload", apperrors.TransactionUploadFailed, sendErr)
		return false, fmt.Errorf("%w (queueing failed: %v)", sendErr, err)
	}

	e.record("upload", "queued")
	e.notify(NotificationInfo, apperrors.GetErrorMessage(apperrors.TransactionUploadQueued))
	return true, nil
}

func (e *TransactionEditor) validate(s interface{}) error {
	err := e.validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = describeFieldError(fe)
	}
	return &ValidationError{Code: apperrors.TransactionValidationFailed, Fields: fields}
}

// fieldPath drops the struct name prefix: SplitTransactionRequest.splits[0].amount -> splits[0].amount
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "positive_amount":
		return "must be greater than zero"
	case "nonzero_amount":
		return "must not be zero"
	case "datetime", "calendar_date":
		return "must be a date in YYYY-MM-DD format"
	case "transaction_category":
		return "must be one of " + strings.Join(models.AllCategories(), ", ")
	case "business_type":
		return "must be one of " + strings.Join(models.AllBusinessTypes(), ", ")
	case "min":
		return "needs at least " + fe.Param() + " entries"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}

// isUnreachable reports whether err means the backend never answered
func isUnreachable(err error) bool {
	return backend.IsOffline(err) || errors.Is(err, backend.ErrRequestFailed)
}

func (e *TransactionEditor) fail(ctx context.Context, operation string, code apperrors.ErrorCode, err error) {
	e.logger.WarnContext(ctx, "transaction edit failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	e.record(operation, "failed")
	e.notify(NotificationError, failureMessage(err, code))
}

func (e *TransactionEditor) succeed(operation, message string) {
	e.record(operation, "success")
	e.notify(NotificationSuccess, message)
}

func (e *TransactionEditor) record(operation, status string) {
	if e.metrics != nil {
		e.metrics.IncrementCounter("editor.operation", map[string]string{
			"operation": operation,
			"status":    status,
		})
	}
}

func (e *TransactionEditor) notify(level NotificationLevel, message string) {
	if e.notifier != nil {
		e.notifier.Notify(level, message)
	}
}

func failureMessage(err error, fallback apperrors.ErrorCode) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Offline {
			return apperrors.GetErrorMessage(apperrors.OfflineUnavailable)
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return apperrors.GetErrorMessage(fallback)
}
