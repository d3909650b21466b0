package notifications

import (
	"bytes"
	"html/template"

	"github.com/procifarmed/storefront-api/pkg/money"
)

var orderPlacedTemplate = template.Must(template.New("order_placed").Funcs(template.FuncMap{
	"brl": money.FormatBRL,
}).Parse(`<h2>Recebemos seu pedido!</h2>
<p>Olá{{if .CustomerName}}, {{.CustomerName}}{{end}}. Seu pedido <strong>{{.OrderID}}</strong> foi criado e aguarda pagamento.</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><th align="left">Produto</th><th>Qtd</th><th align="right">Total</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{brl .LineTotalCents}}</td></tr>
{{end}}</table>
<p><strong>Total: {{brl .TotalCents}}</strong></p>
<pre style="white-space:pre-wrap">{{.PaymentInstructions}}</pre>
{{if .OrderURL}}<p><a href="{{.OrderURL}}">Acompanhar pedido</a></p>{{end}}
`))

func renderOrderPlaced(msg OrderPlaced) (string, error) {
	var buf bytes.Buffer
	if err := orderPlacedTemplate.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}
