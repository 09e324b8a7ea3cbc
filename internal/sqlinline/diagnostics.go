package sqlinline

const QInsertDiagnosticJob = `--sql 23213c3a-275d-4a63-865a-e42644794885
insert into diagnosticos (id, user_id, status, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, now())
returning id::text;
`

// Updates below only touch rows still in processing; zero affected rows
// means the transition was refused.
const QCompleteDiagnosticJob = `--sql 348eba32-024c-41eb-95ba-8d441af4ca0c
update diagnosticos
set status = $2::text,
    score_geral = $3,
    nivel = $4,
    resumo_executivo = $5,
    problema_raiz = $6,
    score_visibilidade = $7,
    score_captacao = $8,
    score_conversao = $9,
    score_posicionamento = $10,
    score_comunicacao = $11,
    raio_x = $12::jsonb,
    maturidade = $13::jsonb,
    analise_mercado = $14::jsonb,
    sobre_empresa = $15::jsonb,
    comunicacao = $16::jsonb,
    objetivos_smart = $17::jsonb,
    plano_acao = $18::jsonb,
    metricas = $19::jsonb,
    concluido_at = $20
where id = $1::uuid
  and status = $21::text;
`

const QFailDiagnosticJob = `--sql 44d879cd-5646-4203-bab7-0fd48ebafc5c
update diagnosticos
set status = $2::text
where id = $1::uuid
  and status = $3::text;
`

const QSelectDiagnosticJob = `--sql ca982358-5182-48c3-9d78-2dbf4302c20d
select id::text,
       user_id::text,
       status,
       created_at,
       concluido_at,
       score_geral,
       nivel,
       resumo_executivo,
       problema_raiz,
       raio_x,
       maturidade,
       analise_mercado,
       sobre_empresa,
       comunicacao,
       objetivos_smart,
       plano_acao,
       metricas
from diagnosticos
where id = $1::uuid;
`

const QFailStaleDiagnosticJobs = `--sql 4a256cce-865c-4561-85dd-56e7b8853557
update diagnosticos
set status = $1::text
where status = $2::text
  and created_at < $3;
`
