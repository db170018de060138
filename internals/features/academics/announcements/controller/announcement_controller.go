package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/academics/announcements/dto"
	"eduquest_backend/internals/features/academics/announcements/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type AnnouncementController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db, Now: time.Now}
}

func (ac *AnnouncementController) find(c *fiber.Ctx) (*model.AnnouncementModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.AnnouncementModel
	err = ac.DB.WithContext(c.UserContext()).
		First(&m, "announcement_id = ? AND announcement_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("announcement not found")
	}
	return &m, err
}

// POST /api/a/announcements
func (ac *AnnouncementController) Create(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateAnnouncementRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(a.TenantID, a.UserID)
	if err := ac.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "announcement created", m)
}

// GET /api/a/announcements?audience=&q=
func (ac *AnnouncementController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	allowed := map[string]string{
		"created_at":  "announcement_created_at",
		"title":       "announcement_title",
		"expiry_date": "announcement_expiry_date",
	}
	q := ac.DB.WithContext(c.UserContext()).Model(&model.AnnouncementModel{}).
		Where("announcement_tenant_id = ?", tenantID)
	if aud := strings.TrimSpace(c.Query("audience")); aud != "" {
		q = q.Where("announcement_audience = ?", aud)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("q"))); s != "" {
		q = q.Where("LOWER(announcement_title) LIKE ?", "%"+s+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.AnnouncementModel
	if err := p.Paginate(q, allowed, "created_at").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "announcements fetched", rows, helper.BuildMeta(total, p))
}

// GET /api/a/announcements/:id
func (ac *AnnouncementController) Detail(c *fiber.Ctx) error {
	m, err := ac.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "announcement fetched", m)
}

// PUT /api/a/announcements/:id
func (ac *AnnouncementController) Update(c *fiber.Ctx) error {
	var req dto.UpdateAnnouncementRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ac.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(m)
	if err := ac.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "announcement updated", m)
}

// DELETE /api/a/announcements/:id
func (ac *AnnouncementController) Delete(c *fiber.Ctx) error {
	m, err := ac.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ac.DB.WithContext(c.UserContext()).
		Delete(&model.AnnouncementModel{}, "announcement_id = ?", m.AnnouncementID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "announcement deleted", fiber.Map{"announcement_id": m.AnnouncementID})
}

// GET /api/u/announcements
func (ac *AnnouncementController) Visible(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	q := ac.DB.WithContext(c.UserContext()).Model(&model.AnnouncementModel{}).
		Where("announcement_tenant_id = ?", a.TenantID).
		Where("announcement_audience IN ?", dto.AudiencesFor(a.Role)).
		Where("(announcement_expiry_date IS NULL OR announcement_expiry_date > ?)", ac.Now())

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.AnnouncementModel
	if err := p.Paginate(q, map[string]string{"created_at": "announcement_created_at"}, "created_at").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "announcements fetched", rows, helper.BuildMeta(total, p))
}
