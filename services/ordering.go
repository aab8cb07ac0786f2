package services

import (
	"fmt"
	"sort"

	"formflow_app_go/models"

	"gorm.io/gorm"
)

// The ordering service keeps orderIndex dense and gap-free within each
// sibling collection (steps of one form, fields of one step), independent
// of insertion and removal order. Sibling collections are always read in
// canonical order: orderIndex, then creation time, then id. The timestamp
// and id tie-breaks make the ordering deterministic even if duplicate
// indexes ever slip in.

const siblingOrder = "order_index ASC, created_at ASC, id ASC"

// sortSteps applies the canonical sibling ordering in memory
func sortSteps(steps []models.Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].OrderIndex != steps[j].OrderIndex {
			return steps[i].OrderIndex < steps[j].OrderIndex
		}
		if !steps[i].CreatedAt.Equal(steps[j].CreatedAt) {
			return steps[i].CreatedAt.Before(steps[j].CreatedAt)
		}
		return steps[i].ID < steps[j].ID
	})
}

// sortFields applies the canonical sibling ordering in memory
func sortFields(fields []models.Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].OrderIndex != fields[j].OrderIndex {
			return fields[i].OrderIndex < fields[j].OrderIndex
		}
		if !fields[i].CreatedAt.Equal(fields[j].CreatedAt) {
			return fields[i].CreatedAt.Before(fields[j].CreatedAt)
		}
		return fields[i].ID < fields[j].ID
	})
}

// InsertStepAt appends the step when position is nil, otherwise shifts every
// sibling at or after the position up by one and inserts there. The step's
// FormID must be set; its OrderIndex is assigned here.
func InsertStepAt(dbConn *gorm.DB, step *models.Step, position *int) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Step{}).Where("form_id = ?", step.FormID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count steps: %w", err)
		}

		at := int(count)
		if position != nil && *position < at {
			at = *position
			if err := tx.Model(&models.Step{}).
				Where("form_id = ? AND order_index >= ?", step.FormID, at).
				UpdateColumn("order_index", gorm.Expr("order_index + 1")).Error; err != nil {
				return fmt.Errorf("failed to shift steps: %w", err)
			}
		}

		step.OrderIndex = at
		if err := tx.Create(step).Error; err != nil {
			return fmt.Errorf("failed to create step: %w", err)
		}
		return nil
	})
}

// ReorderSteps moves a step to a new position and rewrites every sibling's
// orderIndex to its positional rank, in one transaction so a partial
// reindex is never observable.
func ReorderSteps(dbConn *gorm.DB, formID, stepID string, newIndex int) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var steps []models.Step
		if err := tx.Where("form_id = ?", formID).Order(siblingOrder).Find(&steps).Error; err != nil {
			return fmt.Errorf("failed to load steps: %w", err)
		}

		ids := make([]string, len(steps))
		for i, s := range steps {
			ids[i] = s.ID
		}
		moved, ok := moveID(ids, stepID, newIndex)
		if !ok {
			return gorm.ErrRecordNotFound
		}

		for rank, id := range moved {
			if err := tx.Model(&models.Step{}).Where("id = ?", id).
				UpdateColumn("order_index", rank).Error; err != nil {
				return fmt.Errorf("failed to reindex steps: %w", err)
			}
		}
		return nil
	})
}

// DeleteStepAndCompact deletes a step (cascading its fields) and compacts
// the remaining siblings' orderIndex back to a dense 0..N-2 sequence.
func DeleteStepAndCompact(dbConn *gorm.DB, stepID string) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var step models.Step
		if err := tx.First(&step, "id = ?", stepID).Error; err != nil {
			return err
		}

		if err := tx.Where("step_id = ?", stepID).Delete(&models.Field{}).Error; err != nil {
			return fmt.Errorf("failed to delete step fields: %w", err)
		}
		if err := tx.Delete(&step).Error; err != nil {
			return fmt.Errorf("failed to delete step: %w", err)
		}

		return compactSteps(tx, step.FormID)
	})
}

// InsertFieldAt appends the field when position is nil, otherwise shifts
// siblings at or after the position and inserts there.
func InsertFieldAt(dbConn *gorm.DB, field *models.Field, position *int) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Field{}).Where("step_id = ?", field.StepID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count fields: %w", err)
		}

		at := int(count)
		if position != nil && *position < at {
			at = *position
			if err := tx.Model(&models.Field{}).
				Where("step_id = ? AND order_index >= ?", field.StepID, at).
				UpdateColumn("order_index", gorm.Expr("order_index + 1")).Error; err != nil {
				return fmt.Errorf("failed to shift fields: %w", err)
			}
		}

		field.OrderIndex = at
		if err := tx.Create(field).Error; err != nil {
			return fmt.Errorf("failed to create field: %w", err)
		}
		return nil
	})
}

// ReorderFields moves a field within its step and rewrites sibling ranks
func ReorderFields(dbConn *gorm.DB, stepID, fieldID string, newIndex int) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var fields []models.Field
		if err := tx.Where("step_id = ?", stepID).Order(siblingOrder).Find(&fields).Error; err != nil {
			return fmt.Errorf("failed to load fields: %w", err)
		}

		ids := make([]string, len(fields))
		for i, f := range fields {
			ids[i] = f.ID
		}
		moved, ok := moveID(ids, fieldID, newIndex)
		if !ok {
			return gorm.ErrRecordNotFound
		}

		for rank, id := range moved {
			if err := tx.Model(&models.Field{}).Where("id = ?", id).
				UpdateColumn("order_index", rank).Error; err != nil {
				return fmt.Errorf("failed to reindex fields: %w", err)
			}
		}
		return nil
	})
}

// DeleteFieldAndCompact deletes a field and compacts its siblings
func DeleteFieldAndCompact(dbConn *gorm.DB, fieldID string) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var field models.Field
		if err := tx.First(&field, "id = ?", fieldID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&field).Error; err != nil {
			return fmt.Errorf("failed to delete field: %w", err)
		}
		return compactFields(tx, field.StepID)
	})
}

// compactSteps rewrites a form's step ranks to 0..N-1 preserving order
func compactSteps(tx *gorm.DB, formID string) error {
	var steps []models.Step
	if err := tx.Where("form_id = ?", formID).Order(siblingOrder).Find(&steps).Error; err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}
	for rank, s := range steps {
		if s.OrderIndex == rank {
			continue
		}
		if err := tx.Model(&models.Step{}).Where("id = ?", s.ID).
			UpdateColumn("order_index", rank).Error; err != nil {
			return fmt.Errorf("failed to compact steps: %w", err)
		}
	}
	return nil
}

// compactFields rewrites a step's field ranks to 0..N-1 preserving order
func compactFields(tx *gorm.DB, stepID string) error {
	var fields []models.Field
	if err := tx.Where("step_id = ?", stepID).Order(siblingOrder).Find(&fields).Error; err != nil {
		return fmt.Errorf("failed to load fields: %w", err)
	}
	for rank, f := range fields {
		if f.OrderIndex == rank {
			continue
		}
		if err := tx.Model(&models.Field{}).Where("id = ?", f.ID).
			UpdateColumn("order_index", rank).Error; err != nil {
			return fmt.Errorf("failed to compact fields: %w", err)
		}
	}
	return nil
}

// moveID extracts the id from the list and reinserts it at newIndex,
// clamped to the list bounds. Returns false when the id is not present.
func moveID(ids []string, id string, newIndex int) ([]string, bool) {
	oldIndex := -1
	for i, candidate := range ids {
		if candidate == id {
			oldIndex = i
			break
		}
	}
	if oldIndex == -1 {
		return nil, false
	}

	out := make([]string, 0, len(ids))
	out = append(out, ids[:oldIndex]...)
	out = append(out, ids[oldIndex+1:]...)

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(out) {
		newIndex = len(out)
	}

	out = append(out[:newIndex], append([]string{id}, out[newIndex:]...)...)
	return out, true
}
