package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
)

var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://procifarmed.com.br/produto"))

// SeedProductID derives the stable id of a reference product from its slug.
func SeedProductID(slug string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(slug))
}

type seedProduct struct {
	slug    string
	product models.Product
}

func strPtr(v string) *string { return &v }

var seedProducts = []seedProduct{
	{
		slug: "vitaminas-60",
		product: models.Product{
			SKU:              "PROC-IMUN-0060",
			Name:             "Vitaminas Diárias – 60 cápsulas",
			Category:         enums.ProductCategoryWellness.String(),
			Purpose:          enums.ProductPurposeSupplements.String(),
			PriceCents:       8950,
			ImageURL:         strPtr("/assets/prod-vitaminas.jpg"),
			ImageAlt:         "Frasco de vitaminas com rótulo Procifarmed.",
			ShortDescription: "Suporte nutricional diário com formulação equilibrada.",
			Description:      "Fórmula de suporte diário com vitaminas essenciais. Desenvolvida para rotinas modernas, com foco em qualidade e procedência.",
			IsActive:         true,
		},
	},
	{
		slug: "termometro-digital",
		product: models.Product{
			SKU:              "PROC-MED-0101",
			Name:             "Termômetro Digital Pro",
			Category:         enums.ProductCategoryEquipment.String(),
			Purpose:          enums.ProductPurposeMeasurement.String(),
			PriceCents:       12990,
			ImageURL:         strPtr("/assets/prod-termometro.jpg"),
			ImageAlt:         "Termômetro digital em embalagem branca com detalhes vermelhos.",
			ShortDescription: "Leitura rápida e precisa para uso doméstico e clínico.",
			Description:      "Equipamento compacto com display digital, pensado para medições rápidas. Ideal para rotinas de cuidado em casa e em ambientes profissionais.",
			IsActive:         true,
		},
	},
	{
		slug: "creme-hidratante-100",
		product: models.Product{
			SKU:              "PROC-DER-0200",
			Name:             "Creme Hidratante 100ml",
			Category:         enums.ProductCategoryHygiene.String(),
			Purpose:          enums.ProductPurposeDermo.String(),
			PriceCents:       4590,
			ImageURL:         strPtr("/assets/prod-creme.jpg"),
			ImageAlt:         "Tubo de creme hidratante com detalhe vermelho.",
			ShortDescription: "Textura leve para rotina de cuidados com a pele.",
			Description:      "Creme com textura leve e rápida absorção. Desenvolvido para uso diário, mantendo conforto e maciez.",
			IsActive:         true,
		},
	},
	{
		slug: "xarope-infantil",
		product: models.Product{
			SKU:              "PROC-INF-0300",
			Name:             "Xarope Infantil – Alívio de dor",
			Category:         enums.ProductCategoryKids.String(),
			Purpose:          enums.ProductPurposePainFever.String(),
			PriceCents:       3975,
			ImageURL:         strPtr("/assets/prod-xarope.jpg"),
			ImageAlt:         "Caixa de xarope infantil com detalhe vermelho.",
			ShortDescription: "Produto infantil com foco em cuidado e segurança.",
			Description:      "Solução infantil com posicionamento de cuidado. Consulte sempre um profissional de saúde para orientação de uso.",
			IsActive:         true,
		},
	},
}

// SeedProducts returns fresh copies of the reference catalog with their
// deterministic ids assigned.
func SeedProducts() []models.Product {
	out := make([]models.Product, 0, len(seedProducts))
	for _, s := range seedProducts {
		p := s.product
		p.ID = SeedProductID(s.slug)
		if p.ImageURL != nil {
			p.ImageURL = strPtr(*p.ImageURL)
		}
		out = append(out, p)
	}
	return out
}

// Seed inserts every reference product that is not stored yet and returns
// how many were created. Existing rows are left untouched.
func Seed(ctx context.Context, repo *Repository) (int, error) {
	created := 0
	for _, p := range SeedProducts() {
		exists, err := repo.ExistsByID(ctx, p.ID)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		product := p
		if err := repo.Create(ctx, &product); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
