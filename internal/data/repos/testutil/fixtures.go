package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/mealprep-backend/internal/domain"
)

func SeedLabel(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, labelType, externalRefID string, frozenAt *time.Time) *types.LabelSnapshot {
	tb.Helper()
	now := time.Now().UTC()
	l := &types.LabelSnapshot{
		ID:             uuid.New(),
		OrganizationID: orgID,
		LabelType:      labelType,
		ExternalRefID:  externalRefID,
		Title:          labelType + " " + externalRefID,
		RenderPayload:  datatypes.JSON([]byte(`{"perServing":{"kcal":500,"protein_g":40,"carb_g":45,"fat_g":18},"servingWeightG":350,"servings":1}`)),
		FrozenAt:       frozenAt,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed label: %v", err)
	}
	return l
}

func SeedEdge(tb testing.TB, ctx context.Context, tx *gorm.DB, parentID, childID uuid.UUID, edgeType string, createdAt time.Time) *types.LabelLineageEdge {
	tb.Helper()
	e := &types.LabelLineageEdge{
		ID:            uuid.New(),
		ParentLabelID: parentID,
		ChildLabelID:  childID,
		EdgeType:      edgeType,
		CreatedAt:     createdAt,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed edge: %v", err)
	}
	return e
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, name string) *types.ProductCatalog {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.ProductCatalog{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedNutrientValue(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, key string, value float64, updatedAt time.Time) *types.ProductNutrientValue {
	tb.Helper()
	v := &types.ProductNutrientValue{
		ID:                 uuid.New(),
		ProductID:          productID,
		NutrientKey:        key,
		ValuePer100g:       &value,
		SourceType:         "MANUAL",
		EvidenceGrade:      "VERIFIED_LABEL",
		VerificationStatus: "VERIFIED",
		Confidence:         1,
		CreatedAt:          updatedAt,
		UpdatedAt:          updatedAt,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed nutrient value: %v", err)
	}
	return v
}

func SeedPrepComponent(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, name string, defaultYieldPct float64) *types.PrepComponent {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.PrepComponent{
		ID:              uuid.New(),
		OrganizationID:  orgID,
		Name:            name,
		DefaultYieldPct: defaultYieldPct,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prep component: %v", err)
	}
	return p
}

func SeedBatch(tb testing.TB, ctx context.Context, tx *gorm.DB, component *types.PrepComponent, status string, rawG, expectedG float64, actualG *float64, createdAt time.Time) *types.Batch {
	tb.Helper()
	b := &types.Batch{
		ID:              uuid.New(),
		OrganizationID:  component.OrganizationID,
		PrepComponentID: component.ID,
		Status:          status,
		RawInputG:       rawG,
		ExpectedYieldG:  expectedG,
		ActualYieldG:    actualG,
		Version:         1,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed batch: %v", err)
	}
	return b
}

func SeedCheckpoint(tb testing.TB, ctx context.Context, tx *gorm.DB, batchID uuid.UUID, checkpointType string, recordedAt time.Time) *types.BatchCheckpoint {
	tb.Helper()
	c := &types.BatchCheckpoint{
		ID:             uuid.New(),
		BatchID:        batchID,
		CheckpointType: checkpointType,
		RecordedBy:     "test",
		RecordedAt:     recordedAt,
		CreatedAt:      recordedAt,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed checkpoint: %v", err)
	}
	return c
}

func PtrFloat(v float64) *float64 { return &v }

func PtrTime(t time.Time) *time.Time { return &t }
