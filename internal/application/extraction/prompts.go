package extraction

// visionPrompt asks Gemini to read the nameplate photo directly
const visionPrompt = `この画像は建設機械・工具の銘板(ネームプレート)の写真です。
銘板から以下の情報を読み取り、JSON形式で出力してください。
読み取れない項目は空文字列にしてください。JSON以外の文章は出力しないでください。

{
  "equipment_name": "機械・工具の名称",
  "model_number": "型式・モデル番号",
  "serial_number": "製造番号・シリアル番号",
  "manufacturer": "メーカー名",
  "weight": "重量",
  "output_power": "出力",
  "engine_model": "エンジン型式",
  "year_manufactured": "製造年",
  "specifications": "その他の仕様"
}`

// textPrompt asks Gemini to structure OCR output from the nameplate
const textPrompt = `以下は建設機械・工具の銘板をOCRで読み取ったテキストです。
このテキストから以下の情報を抽出し、JSON形式で出力してください。
判別できない項目は空文字列にしてください。JSON以外の文章は出力しないでください。

{
  "equipment_name": "機械・工具の名称",
  "model_number": "型式・モデル番号",
  "serial_number": "製造番号・シリアル番号",
  "manufacturer": "メーカー名",
  "weight": "重量",
  "output_power": "出力",
  "engine_model": "エンジン型式",
  "year_manufactured": "製造年",
  "specifications": "その他の仕様"
}

OCRテキスト:
`

// specSheetPrompt asks Gemini to structure text taken from a spec sheet PDF
const specSheetPrompt = `以下は建設機械・工具の仕様書(カタログ)から抽出したテキストです。
このテキストから以下の情報を抽出し、JSON形式で出力してください。
判別できない項目は空文字列にしてください。JSON以外の文章は出力しないでください。

{
  "equipment_name": "機械・工具の名称",
  "model_number": "型式・モデル番号",
  "serial_number": "製造番号・シリアル番号",
  "manufacturer": "メーカー名",
  "weight": "重量",
  "output_power": "出力",
  "engine_model": "エンジン型式",
  "year_manufactured": "製造年",
  "specifications": "その他の仕様"
}

仕様書テキスト:
`
