package website

// buildPrompt wraps the combined page text with the extraction
// instructions. The answers are expected in Brazilian Portuguese.
func buildPrompt(combined string) string {
	return `Analyze the following website content and extract structured company information in Brazilian Portuguese context.

Website Content:
` + combined + `

Extract and return ONLY the following information in JSON format (return null for missing fields):

1. **brand_name**: The official company brand name
2. **addresses**: All physical addresses found (parse into structured components: street, number, district, city, state, postal_code)
3. **phones**: All phone numbers (up to 4), classify type as: 'fixed', 'mobile', 'whatsapp', 'fax', or 'other'
4. **history**: Brief company history or about section (max 1500 characters)
5. **products**: List of main products offered
6. **services**: List of main services offered
7. **brands**: List of product brands sold or represented
8. **social_links**: Social media URLs (facebook, instagram, youtube, tiktok, linkedin, twitter, others)
9. **cnpj**: Brazilian company ID (CNPJ) in format XX.XXX.XXX/XXXX-XX if found
10. **offers_summary**: Summary of current offers or promotions (max 1500 characters)

Guidelines:
- Extract information in Brazilian Portuguese
- For addresses: identify street type (Rua, Av., etc.), number, district, city, state abbreviation (SP, RJ, etc.), CEP
- For phones: detect type based on context (WhatsApp, Celular, Fixo, etc.) or digit count (9 digits = mobile)
- Social links: extract full URLs
- Return null for any field that cannot be found
- Be concise and accurate

Return ONLY valid JSON following the schema provided.`
}
