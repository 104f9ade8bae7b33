// Package scanning provides the alternative extraction backends: a
// Gemini-backed extractor that sends the document to a hosted model,
// and a client for a third-party document-parsing API. Both produce the
// same invoice record shape as the pattern engine, so callers can swap
// backends freely.
package scanning

// invoiceScanPrompt is the shared prompt used when asking a model to
// extract structured invoice data.
const invoiceScanPrompt = `You are analyzing an invoice document. Carefully read all text and extract the following information.

Return ONLY valid JSON in this exact format:
{
  "invoice_number": "INV-001",
  "date": "YYYY-MM-DD",
  "due_date": "YYYY-MM-DD",
  "total": 0.00,
  "subtotal": 0.00,
  "tax": 0.00,
  "vendor_name": "Vendor Inc",
  "customer_name": "Customer Name",
  "vendor_info": {
    "email": "billing@vendor.com",
    "phone": "555-123-4567",
    "address": "123 Main Street"
  },
  "line_items": [
    {"description": "Widget", "quantity": 2, "unit_price": 500.00, "total_amount": 1000.00}
  ],
  "po_number": "PO-123",
  "payment_terms": "Net 30",
  "currency": "USD"
}

Important:
- Dates must be in YYYY-MM-DD format
- Money values must be numbers (not strings), without currency symbols or thousands separators
- If you cannot find a field, use null for that field; never invent values
- line_items must list every billed row of the invoice, or [] if there are none
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
