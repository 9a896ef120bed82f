package httpserver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/and161185/goph-vault/internal/convert"
	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/observability"
	"github.com/and161185/goph-vault/internal/passgen"
	"github.com/and161185/goph-vault/internal/service"
)

// Pinger reports readiness of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers wires services into HTTP handlers.
type Handlers struct {
	auth    service.AuthService
	records service.RecordService
	gen     service.GeneratorService
	db      Pinger
	metrics *observability.Metrics
}

// --- Health ---

// Health reports liveness, and database reachability when one is configured.
func (h *Handlers) Health(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- Auth ---

// Login exchanges the master password for a session token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req convert.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed body", errs.ErrValidation)
	}
	sess, err := h.auth.Login(c.UserContext(), req.Password)
	if err != nil {
		h.metrics.RecordAuthFailure(observability.AuthFailureLogin)
		return err
	}
	return c.JSON(convert.ToLoginResponse(sess))
}

// Session returns the lifetime of the presented token.
func (h *Handlers) Session(c *fiber.Ctx) error {
	p, ok := SessionFromCtx(c.UserContext())
	if !ok {
		return errs.ErrUnauthorized
	}
	return c.JSON(fiber.Map{
		"issuedAt":  p.IssuedTime().UnixMilli(),
		"expiresAt": p.ExpiresTime().UnixMilli(),
	})
}

// --- Generator ---

// GeneratePassword builds a policy from query parameters. Classes are on
// unless set to "false"; excludeSimilar is off unless set to "true".
func (h *Handlers) GeneratePassword(c *fiber.Ctx) error {
	p, err := policyFromQuery(c)
	if err != nil {
		return err
	}
	pw, err := h.gen.Generate(p)
	if err != nil {
		return err
	}
	return c.JSON(convert.PasswordResponse{Password: pw})
}

func policyFromQuery(c *fiber.Ctx) (passgen.Policy, error) {
	p := passgen.Policy{
		Length:           passgen.DefaultLength,
		Uppercase:        c.Query("uppercase") != "false",
		Lowercase:        c.Query("lowercase") != "false",
		Digits:           c.Query("numbers") != "false",
		Symbols:          c.Query("symbols") != "false",
		ExcludeAmbiguous: c.Query("excludeSimilar") == "true",
	}
	if v := c.Query("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: length must be an integer", errs.ErrInvalidPolicy)
		}
		p.Length = n
	}
	return p, nil
}

// --- Items ---

// ListItems returns every record with its password decrypted, newest first.
func (h *Handlers) ListItems(c *fiber.Ctx) error {
	rs, err := h.records.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(convert.ToRecordDTOs(rs))
}

// GetItem returns a single record.
func (h *Handlers) GetItem(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}
	r, err := h.records.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(convert.ToRecordDTO(*r))
}

// CreateItem stores a new record.
func (h *Handlers) CreateItem(c *fiber.Ctx) error {
	var req convert.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed body", errs.ErrValidation)
	}
	r, err := h.records.Create(c.UserContext(), convert.FromRecordRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(convert.ToRecordDTO(*r))
}

// UpdateItem replaces a record. The password is re-encrypted under a fresh nonce.
func (h *Handlers) UpdateItem(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}
	var req convert.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed body", errs.ErrValidation)
	}
	r, err := h.records.Update(c.UserContext(), id, convert.FromRecordRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(convert.ToRecordDTO(*r))
}

// DeleteItem removes a record.
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}
	if err := h.records.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func itemID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id", errs.ErrValidation)
	}
	return id, nil
}
