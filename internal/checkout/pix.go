package checkout

import (
	"fmt"

	"github.com/procifarmed/storefront-api/pkg/money"
)

// PixInstructions renders the manual PIX payment text stored on the order.
func PixInstructions(totalCents int, key, beneficiary string) string {
	return fmt.Sprintf("Pagamento via PIX (manual).\n\n"+
		"1) Realize o PIX no valor de %s\n"+
		"2) Envie o comprovante para nosso atendimento (WhatsApp / e-mail)\n"+
		"3) Após confirmação, o pedido seguirá para separação e envio.\n\n"+
		"Chave PIX: %s\n"+
		"Favorecido: %s", money.FormatBRL(totalCents), key, beneficiary)
}
