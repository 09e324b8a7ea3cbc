package sqlinline

const QSelectProfilePlan = `--sql 53dbfe25-fbe5-4753-86e7-71d954e6e9cf
select coalesce(plano_ativo, false)
from profiles
where id = $1::uuid;
`

const QSelectProfile = `--sql fca7461c-7dff-4a59-8fdf-1df4ca56d258
select id::text,
       coalesce(nome_responsavel, ''),
       coalesce(nome_negocio, ''),
       coalesce(plano_ativo, false),
       updated_at
from profiles
where id = $1::uuid;
`

const QUpdateProfilePlan = `--sql 92539870-0648-4918-8216-eadcd1e577fe
update profiles
set plano_ativo = $2::boolean,
    updated_at = now()
where id = $1::uuid;
`
