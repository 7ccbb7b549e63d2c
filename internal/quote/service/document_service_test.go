package service

import (
	"context"
	"testing"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentFixture struct {
	docSvc *DocumentService
	tplSvc *TemplateService
	catSvc *CatalogService
}

func setupDocumentTest(t *testing.T) *documentFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return &documentFixture{
		docSvc: NewDocumentService(repos.Document, repos.Template, nil),
		tplSvc: NewTemplateService(repos.Template, repos.Part),
		catSvc: NewCatalogService(repos.Part, repos.Template),
	}
}

// seedTemplate250 makes a template whose lines total 250 (100*2 + 50*1).
func seedTemplate250(t *testing.T, fx *documentFixture) *entity.EquipmentTemplate {
	t.Helper()
	ctx := context.Background()

	_, err := fx.catSvc.CreatePart(ctx, &CreatePartInput{
		MakerID: "LS", PartID: "P-100", Major: "자재비", Minor: "PLC", Name: "PLC 본체", Price: 100,
	})
	require.NoError(t, err)
	_, err = fx.catSvc.CreatePart(ctx, &CreatePartInput{
		MakerID: "OMRON", PartID: "P-50", Major: "자재비", Minor: "센서", Name: "포토센서", Price: 50,
	})
	require.NoError(t, err)

	tpl, err := fx.tplSvc.CreateTemplate(ctx, "컨베이어 A", "user-1", []TemplateLineInput{
		{MakerID: "LS", PartID: "P-100", Quantity: 2},
		{MakerID: "OMRON", PartID: "P-50", Quantity: 1},
	})
	require.NoError(t, err)
	return tpl
}

func TestCreateComparison_SubtotalFromTemplate(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, entity.DocKindPriceCompare, doc.Kind)

	grouped, err := fx.docSvc.GetGrouped(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, grouped.Buckets, 1)
	require.Len(t, grouped.Buckets[0].Groups, 1)
	assert.Equal(t, "컨베이어 A", grouped.Buckets[0].Groups[0].Equipment)
	assert.Equal(t, int64(250), grouped.Buckets[0].Groups[0].Subtotal)
	assert.Equal(t, int64(250), grouped.GrandTotal)
}

func TestSnapshot_SurvivesCatalogPriceChange(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)

	// 카탈로그와 템플릿 단가를 모두 바꿔도 찍힌 문서는 그대로다.
	_, err = fx.catSvc.UpdatePartPrice(ctx, "LS", "P-100", 77777)
	require.NoError(t, err)
	_, err = fx.tplSvc.UpdateTemplateLine(ctx, tpl.ID, "LS", "P-100", 88888, 9)
	require.NoError(t, err)

	grouped, err := fx.docSvc.GetGrouped(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), grouped.GrandTotal)
}

func TestCreateComparison_UnknownTemplate(t *testing.T) {
	fx := setupDocumentTest(t)

	_, err := fx.docSvc.CreateComparison(context.Background(), "", "", "user-1", []string{"no-such-template"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateComparison_IdempotentRetry(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	first, err := fx.docSvc.CreateComparison(ctx, "doc-retry-001", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)

	// 같은 id로 다시 만들어도 라인이 중복되지 않는다.
	second, err := fx.docSvc.CreateComparison(ctx, "doc-retry-001", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Lines, 2)
}

func TestUpdateComparison_RegenerateDiscardsManualEdits(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)

	// 수동 덮어쓰기로 라인을 하나로 줄인다.
	manual := []entity.DocumentLine{
		{Major: "노무비", Minor: "조립", Equipment: "컨베이어 A", Unit: "식", UnitPrice: 500, Quantity: 1, TemplateID: tpl.ID},
	}
	updated, err := fx.docSvc.UpdateComparison(ctx, doc.ID, "user-1", []string{tpl.ID}, WriteOverwrite, manual)
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "노무비", updated.Lines[0].Major)

	// 재생성하면 템플릿 상태로 되돌아간다.
	regenerated, err := fx.docSvc.UpdateComparison(ctx, doc.ID, "user-1", []string{tpl.ID}, WriteRegenerate, nil)
	require.NoError(t, err)
	require.Len(t, regenerated.Lines, 2)

	grouped, err := fx.docSvc.GetGrouped(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), grouped.GrandTotal)
}

func TestUpdateComparison_ManualLineWithForeignTemplateRejected(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)

	manual := []entity.DocumentLine{
		{Major: "자재비", Minor: "PLC", Equipment: "컨베이어 A", UnitPrice: 100, Quantity: 1, TemplateID: "some-other-template"},
	}
	_, err = fx.docSvc.UpdateComparison(ctx, doc.ID, "user-1", []string{tpl.ID}, WriteOverwrite, manual)
	assert.ErrorIs(t, err, ErrReconciliationConflict)
}

func TestUpdateComparison_InvalidBatchLeavesDocumentIntact(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)

	// 복합 키가 중복된 배치는 통째로 거부된다.
	manual := []entity.DocumentLine{
		{Major: "자재비", Minor: "PLC", Equipment: "컨베이어 A", UnitPrice: 100, Quantity: 1},
		{Major: "자재비", Minor: "PLC", Equipment: "컨베이어 A", UnitPrice: 200, Quantity: 2},
	}
	_, err = fx.docSvc.UpdateComparison(ctx, doc.ID, "user-1", []string{tpl.ID}, WriteOverwrite, manual)
	assert.ErrorIs(t, err, ErrInvalidLineData)

	// 기존 라인은 그대로다.
	got, err := fx.docSvc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
}

func TestUpdateComparison_NonComparisonDocumentRejected(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateDocument(ctx, &CreateDocumentInput{
		Kind:        entity.DocKindDetailed,
		Title:       "내역서",
		Creator:     "user-1",
		TemplateIDs: []string{tpl.ID},
	})
	require.NoError(t, err)

	_, err = fx.docSvc.UpdateComparison(ctx, doc.ID, "user-1", []string{tpl.ID}, WriteRegenerate, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDocument_HeaderWithManualLines(t *testing.T) {
	fx := setupDocumentTest(t)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateDocument(ctx, &CreateDocumentInput{
		Kind:    entity.DocKindHeader,
		Title:   "견적 요약",
		Creator: "user-1",
		Lines: []entity.DocumentLine{
			{Major: "자재비", Minor: "합계", Equipment: "전체", Unit: "식", UnitPrice: 1000, Quantity: 1},
			{Major: "노무비", Minor: "합계", Equipment: "전체", Unit: "식", UnitPrice: 300, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Len(t, doc.Lines, 2)

	grouped, err := fx.docSvc.GetGrouped(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), grouped.GrandTotal)
	require.Len(t, grouped.Buckets, 2)
	assert.Equal(t, "자재비", grouped.Buckets[0].Major)
	assert.Equal(t, "노무비", grouped.Buckets[1].Major)
}

func TestUpdateDocument_ReplacesLinesWholesale(t *testing.T) {
	fx := setupDocumentTest(t)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateDocument(ctx, &CreateDocumentInput{
		Kind:    entity.DocKindHeader,
		Title:   "견적 요약",
		Creator: "user-1",
		Lines: []entity.DocumentLine{
			{Major: "자재비", Minor: "합계", Equipment: "전체", UnitPrice: 1000, Quantity: 1},
		},
	})
	require.NoError(t, err)

	updated, err := fx.docSvc.UpdateDocument(ctx, doc.ID, nil, []entity.DocumentLine{
		{Major: "자재비", Minor: "합계", Equipment: "전체", UnitPrice: 2000, Quantity: 1},
		{Major: "경비", Minor: "운반", Equipment: "전체", UnitPrice: 100, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 2)

	grouped, err := fx.docSvc.GetGrouped(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2300), grouped.GrandTotal)

	// 비교 문서에는 쓸 수 없다.
	tpl := seedTemplate250(t, fx)
	cmp, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)
	_, err = fx.docSvc.UpdateDocument(ctx, cmp.ID, []string{tpl.ID}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDocument_UnknownKind(t *testing.T) {
	fx := setupDocumentTest(t)

	_, err := fx.docSvc.CreateDocument(context.Background(), &CreateDocumentInput{
		Kind: "draft", Creator: "user-1",
	})
	assert.ErrorIs(t, err, ErrInvalidLineData)
}

func TestGetGrouped_Deterministic(t *testing.T) {
	fx := setupDocumentTest(t)
	tpl := seedTemplate250(t, fx)
	ctx := context.Background()

	doc, err := fx.docSvc.CreateComparison(ctx, "", "", "user-1", []string{tpl.ID})
	require.NoError(t, err)

	first, err := fx.docSvc.GetGrouped(ctx, doc.ID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := fx.docSvc.GetGrouped(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
