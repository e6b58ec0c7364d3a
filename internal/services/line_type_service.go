package services

import (
	"regexp"

	"gorm.io/gorm"

	"transit_admin/internal/apperrors"
	"transit_admin/internal/models"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// LineTypeService is plain CRUD over line categories. Its one real rule is
// the delete guard: a type still referenced by any line cannot go away.
type LineTypeService struct {
	db *gorm.DB
}

func NewLineTypeService(db *gorm.DB) *LineTypeService {
	return &LineTypeService{db: db}
}

type LineTypeInput struct {
	NameSingular *string `json:"nameSingular"`
	NamePlural   *string `json:"namePlural"`
	Color        *string `json:"color"`
}

func (s *LineTypeService) AddLineType(input LineTypeInput) (*models.LineType, error) {
	if input.NameSingular == nil || *input.NameSingular == "" {
		return nil, apperrors.Validation("line type singular name is required")
	}
	if input.NamePlural == nil || *input.NamePlural == "" {
		return nil, apperrors.Validation("line type plural name is required")
	}
	if input.Color == nil || *input.Color == "" {
		return nil, apperrors.Validation("line type color is required")
	}
	if !hexColorRe.MatchString(*input.Color) {
		return nil, apperrors.Validation("line type color must be a valid hex color code (e.g., #FF0000)")
	}

	lineType := models.LineType{
		NameSingular: *input.NameSingular,
		NamePlural:   *input.NamePlural,
		Color:        *input.Color,
	}
	if err := s.db.Create(&lineType).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return &lineType, nil
}

// UpdateLineType applies a partial update. Validation happens before any
// store write: a bad color rejects the whole request.
func (s *LineTypeService) UpdateLineType(id uint, input LineTypeInput) (*models.LineType, error) {
	if id == 0 {
		return nil, apperrors.Validation("line type ID is required")
	}

	updates := map[string]any{}
	if input.NameSingular != nil {
		updates["name_singular"] = *input.NameSingular
	}
	if input.NamePlural != nil {
		updates["name_plural"] = *input.NamePlural
	}
	if input.Color != nil {
		if !hexColorRe.MatchString(*input.Color) {
			return nil, apperrors.Validation("line type color must be a valid hex color code (e.g., #FF0000)")
		}
		updates["color"] = *input.Color
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	result := s.db.Model(&models.LineType{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("line type with ID %d not found", id)
	}

	var lineType models.LineType
	if err := s.db.First(&lineType, id).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return &lineType, nil
}

func (s *LineTypeService) GetAllLineTypes() ([]models.LineType, error) {
	var lineTypes []models.LineType
	if err := s.db.Order("id").Find(&lineTypes).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return lineTypes, nil
}

func (s *LineTypeService) GetLineTypeByID(id uint) (*models.LineType, error) {
	if id == 0 {
		return nil, apperrors.Validation("line type ID is required")
	}

	var lineType models.LineType
	if err := s.db.First(&lineType, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("line type with ID %d not found", id)
		}
		return nil, apperrors.Translate(err)
	}
	return &lineType, nil
}

// DeleteLineType removes a line type unless any line still uses it.
func (s *LineTypeService) DeleteLineType(id uint) error {
	if id == 0 {
		return apperrors.Validation("line type ID is required")
	}

	var count int64
	if err := s.db.Model(&models.Line{}).Where("line_type_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Translate(err)
	}
	if count > 0 {
		return apperrors.Validation("cannot delete line type %d because it's still in use by %d line(s)", id, count)
	}

	result := s.db.Delete(&models.LineType{}, id)
	if result.Error != nil {
		return apperrors.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("line type with ID %d not found", id)
	}
	return nil
}
